package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/geministudio/internal/history"
)

var (
	exportFormatFlag string
	exportOutFlag    string
)

// historyCmd manages saved conversations
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved conversations",
	Long: `Manage conversations saved by the studio.

References accept @last, @first, a 1-based index, a title substring,
or a conversation ID.

Examples:
  geministudio history list
  geministudio history show @last
  geministudio history export @last -o conversation.md
  geministudio history search "cube"
  geministudio history favorite @last
  geministudio history delete 3
  geministudio history clear`,
}

// historyListCmd lists saved conversations
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		conversations, err := store.ListConversations()
		if err != nil {
			return err
		}

		if len(conversations) == 0 {
			fmt.Println("No saved conversations")
			return nil
		}

		favorites, err := store.Favorites()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tTITLE\tMODEL\tMSGS\tUPDATED\tID")
		for i, conv := range conversations {
			title := truncateString(conv.Title, 40)
			if favorites[conv.ID] {
				title = "★ " + title
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
				i+1,
				title,
				conv.Model,
				len(conv.Messages),
				history.FormatRelativeTime(conv.UpdatedAt),
				conv.ID,
			)
		}
		return w.Flush()
	},
}

// historyShowCmd prints one conversation
var historyShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		conv, err := history.NewResolver(store).ResolveWithInfo(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s, %d messages)\n\n", conv.Title, conv.Model, len(conv.Messages))
		for _, msg := range conv.Messages {
			label := "You"
			if msg.Role == "model" {
				label = "Gemini"
			}
			fmt.Printf("── %s ──\n%s\n", label, msg.Content)
			for _, path := range msg.Images {
				fmt.Printf("  🖼 %s\n", path)
			}
			fmt.Println()
		}
		return nil
	},
}

// historyExportCmd exports a conversation to Markdown or JSON
var historyExportCmd = &cobra.Command{
	Use:   "export <ref>",
	Short: "Export a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		id, err := history.NewResolver(store).Resolve(args[0])
		if err != nil {
			return err
		}

		var data []byte
		switch history.ExportFormat(exportFormatFlag) {
		case history.ExportFormatMarkdown:
			md, err := store.ExportToMarkdown(id)
			if err != nil {
				return err
			}
			data = []byte(md)
		case history.ExportFormatJSON:
			data, err = store.ExportToJSON(id)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (markdown or json)", exportFormatFlag)
		}

		if exportOutFlag == "" {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(exportOutFlag, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("Exported to %s\n", exportOutFlag)
		return nil
	},
}

// historySearchCmd searches titles and message content
var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		results, err := store.SearchConversations(args[0], true)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No matches")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s  %s\n", r.Conversation.ID, r.Conversation.Title)
			if r.MatchField == "content" {
				fmt.Printf("    ...%s\n", strings.TrimSpace(r.MatchSnippet))
			}
		}
		return nil
	},
}

// historyFavoriteCmd toggles a conversation's favorite flag
var historyFavoriteCmd = &cobra.Command{
	Use:   "favorite <ref>",
	Short: "Toggle a conversation's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		conv, err := history.NewResolver(store).ResolveWithInfo(args[0])
		if err != nil {
			return err
		}

		fav, err := store.ToggleFavorite(conv.ID)
		if err != nil {
			return err
		}
		if fav {
			fmt.Printf("★ Marked %q as favorite\n", conv.Title)
		} else {
			fmt.Printf("Removed favorite from %q\n", conv.Title)
		}
		return nil
	},
}

// historyDeleteCmd deletes one conversation
var historyDeleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		conv, err := history.NewResolver(store).ResolveWithInfo(args[0])
		if err != nil {
			return err
		}

		if err := store.DeleteConversation(conv.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %q (%s)\n", conv.Title, conv.ID)
		return nil
	},
}

// historyClearCmd deletes all conversations after confirmation
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.DefaultStore()
		if err != nil {
			return err
		}

		conversations, err := store.ListConversations()
		if err != nil {
			return err
		}
		if len(conversations) == 0 {
			fmt.Println("No saved conversations")
			return nil
		}

		fmt.Printf("Delete all %d conversations? [y/N] ", len(conversations))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted")
			return nil
		}

		if err := store.ClearAll(); err != nil {
			return err
		}
		fmt.Println("History cleared")
		return nil
	},
}

func init() {
	historyExportCmd.Flags().StringVar(&exportFormatFlag, "format", "markdown", "Export format (markdown or json)")
	historyExportCmd.Flags().StringVarP(&exportOutFlag, "output", "o", "", "Write export to file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyFavoriteCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// truncateString shortens a string to max runes with an ellipsis
func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
