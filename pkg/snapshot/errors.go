package snapshot

import apperrors "github.com/draad/tokeneditor/pkg/errors"

func notFound(id string) error {
	return apperrors.New(apperrors.ErrCodeSnapshotNotFound, "snapshot %q not found", id)
}

func ambiguous(id string) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "snapshot prefix %q matches more than one snapshot", id)
}
