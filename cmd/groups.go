package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yatube/yatube-services/models"
)

var (
	groupTitle       string
	groupSlug        string
	groupDescription string
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage post groups",
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post group",
	Run: func(cmd *cobra.Command, args []string) {

		commonSetUp()
		defer blogDB.Close()

		group, err := blogDB.CreateGroup(models.Group{
			Title:       groupTitle,
			Slug:        groupSlug,
			Description: groupDescription,
		})
		if err != nil {
			log.Fatal().Err(err).Str("slug", groupSlug).Msg("Failed to create group")
		}

		log.Info().Int64("id", group.ID).Str("slug", group.Slug).Msg("Group created")
		fmt.Printf("%d\t%s\n", group.ID, group.Slug)
	},
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List post groups",
	Run: func(cmd *cobra.Command, args []string) {

		commonSetUp()
		defer blogDB.Close()

		groups, err := blogDB.GetGroups()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list groups")
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
		for _, g := range groups {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsCreateCmd, groupsListCmd)

	groupsCreateCmd.Flags().StringVar(&groupTitle, "title", "", "group title")
	groupsCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "unique slug used in group URLs")
	groupsCreateCmd.Flags().StringVar(&groupDescription, "description", "", "group description")
	groupsCreateCmd.MarkFlagRequired("title")
	groupsCreateCmd.MarkFlagRequired("slug")
}
