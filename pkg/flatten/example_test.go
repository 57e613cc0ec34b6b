package flatten_test

import (
	"fmt"
	"strings"

	"github.com/draad/tokeneditor/pkg/flatten"
	tokenio "github.com/draad/tokeneditor/pkg/io"
)

func ExampleFlatten() {
	doc, _ := tokenio.ReadJSON(strings.NewReader(`{
		"color": {
			"primary": {"value": "#ff0000", "type": "color"},
			"accent":  {"value": "{color.primary}", "type": "color"}
		},
		"spacing": {"base": {"value": 8, "type": "spacing"}}
	}`))

	for _, t := range flatten.Flatten(doc) {
		fmt.Printf("%s = %s (%s)\n", t.Name, t.Value, t.Type)
	}
	// Output:
	// color.primary = #ff0000 (color)
	// color.accent = {color.primary} (color)
	// spacing.base = 8 (spacing)
}

func ExampleSkipped() {
	doc, _ := tokenio.ReadJSON(strings.NewReader(`{
		"shadow": {"value": {"x": 0, "y": 2}, "type": "boxShadow"},
		"radius": {"value": "4px", "type": "borderRadius"}
	}`))

	fmt.Println(flatten.Skipped(doc))
	// Output: [shadow]
}
