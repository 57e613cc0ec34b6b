package css_test

import (
	"fmt"

	"github.com/draad/tokeneditor/pkg/render/css"
	"github.com/draad/tokeneditor/pkg/resolve"
	"github.com/draad/tokeneditor/pkg/token"
)

func ExampleGenerate() {
	tokens := resolve.Resolve([]token.Token{
		{Name: "color.primary", Value: token.String("#ff0000"), Type: "color"},
		{Name: "color.accent", Value: token.Ref("color.primary"), Type: "color"},
	})

	fmt.Print(css.Generate(tokens, css.DefaultSelector))
	// Output:
	// .openstad, [data-apos-level] {
	//   --color-primary: #ff0000;
	//   --color-accent: #ff0000;
	// }
}
