package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/ngmenu/pkg/text"
)

func ExampleSplice() {
	res := text.Splice("<body><app-root></app-root></body>", text.Rule{
		Anchor:    "<body>",
		Fragment:  "<div>",
		Placement: text.PlaceAfter,
	})
	fmt.Println(res.Content, res.Applied)

	res = text.Splice("<html></html>", text.Rule{
		Anchor:    "<body>",
		Fragment:  "<div>",
		Placement: text.PlaceAfter,
	})
	fmt.Println(res.Content, res.Applied)

	// Output:
	// <body><div><app-root></app-root></body> true
	// <html></html> false
}

func ExampleSplicer_Apply() {
	splicer := text.NewSplicer()

	rules := []text.Rule{
		{Anchor: "<body>", Fragment: "<div>", Placement: text.PlaceAfter},
		{Anchor: "</body>", Fragment: "</div>", Placement: text.PlaceBefore},
	}

	result, err := splicer.Apply(context.Background(), strings.NewReader("<body>hi</body>"), rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Applied: %d\n", result.AppliedCount)

	// Output:
	// Modified: <body><div>hi</div></body>
	// Applied: 2
}
