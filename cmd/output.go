package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"

	textdb "github.com/mwantia/textdb"
	"github.com/mwantia/textdb/data"
)

// render converts a lookup result into plain values for JSON output.
// Namespace nodes become an object of their loaded children.
func render(value textdb.Value) any {
	switch value.Kind() {
	case textdb.KindDocument:
		doc, _ := value.Document()
		return doc.Unwrap()
	case textdb.KindList:
		list, _ := value.List()
		return data.UnwrapValue(list)
	case textdb.KindNamespace:
		node, _ := value.Namespace()
		out := make(map[string]any, node.Len())
		for _, item := range node.Items() {
			out[item.Name] = render(item.Value)
		}
		return out
	default:
		return nil
	}
}

func printJSON(value any) {
	fmt.Println(oj.JSON(value, 2))
}
