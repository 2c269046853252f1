package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/optikit/optikit/internal/presentation/tree"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree <model-file>",
	Short: "Show the element tree of a model",
	Long:  `Loads a model and prints its part hierarchy: elements, air spaces and assemblies with the interfaces and gaps they own. With --mermaid the tree is emitted as a Mermaid diagram instead.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadModel(cmd, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Print(tree.GenerateMermaid(m.Tree.Root))
			return
		}

		r := tree.NewRenderer()
		r.ShowTags, _ = cmd.Flags().GetBool("tags")
		if err := r.Render(os.Stdout, m.Tree.Root); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	treeCmd.Flags().Bool("tags", false, "Show node tags")
	treeCmd.Flags().Bool("mermaid", false, "Emit a Mermaid diagram")
	rootCmd.AddCommand(treeCmd)
}
