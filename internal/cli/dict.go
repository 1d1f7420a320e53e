package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dan-solli/docgraph/pkg/dictionary"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dict [file]",
		Short: "Print the entity dictionary as JSON",
		Long:  "Prints the dictionary that run would use: the given dictionary file, or the built-in solar-system dictionary.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runDict,
	}

	RootCmd.AddCommand(cmd)
}

func runDict(cmd *cobra.Command, args []string) {
	entities := dictionary.DefaultEntities
	if len(args) > 0 {
		loaded, err := loadEntities(args[0])
		if err != nil {
			exitErr("load dictionary", err)
		}
		entities = loaded
	}

	d := dictionary.New(entities, nil)
	b, _ := json.MarshalIndent(d.Entities(), "", "  ")
	fmt.Println(string(b))
}
