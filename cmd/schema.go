package cmd

import (
	"context"
	"sort"

	"opsboard/core/lists"

	"github.com/spf13/cobra"
)

// schemaCmd prints how logical fields resolve on every configured list.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the resolved field names of every list",
	Long: `Resolves the column metadata of every configured list and prints, per
list, the actual field behind each known column and the read-only fields.
Lists that cannot be resolved are reported with their error.`,
	RunE: runSchema,
}

func init() {
	RootCmd.AddCommand(schemaCmd)
}

type listSchema struct {
	Kind     lists.Kind        `json:"kind"`
	ListID   string            `json:"listId,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	ReadOnly []string          `json:"readOnly,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	out := make([]listSchema, 0, len(lists.All))
	for _, kind := range lists.All {
		entry := listSchema{Kind: kind}
		b, err := a.resolver.Bind(ctx, kind)
		if err != nil {
			entry.Error = err.Error()
			out = append(out, entry)
			continue
		}
		entry.ListID = b.ListID()
		entry.Fields = make(map[string]string, len(b.Mapping.ByNormalized))
		for key := range b.Mapping.ByNormalized {
			entry.Fields[key] = b.Field(key)
		}
		for field := range b.Mapping.ReadOnly {
			entry.ReadOnly = append(entry.ReadOnly, field)
		}
		sort.Strings(entry.ReadOnly)
		out = append(out, entry)
	}
	return printJSON(cmd, out)
}
