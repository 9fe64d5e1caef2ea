package command

import (
	"strings"

	"github.com/spf13/cobra"

	"animehub/internal/app"
	"animehub/internal/microservices/http-api/dto"
	"animehub/pkg/models"
)

var searchPage int

var searchCmd = &cobra.Command{
	Use:   "search <entity> <source> <text...>",
	Short: "Search one catalog by name",
	Long:  `Search anime, characters or people by name in a single catalog. Use the printed id with the anime, character or person commands.`,
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := models.ParseEntityType(args[0])
		if err != nil {
			return err
		}
		source, err := models.ParseSource(args[1])
		if err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")

		agg := app.NewAggregator(cfg, log)
		hits, err := agg.Search(cmd.Context(), entity, source, text, searchPage)
		if err != nil {
			return err
		}

		w, asJSON := out(cmd)
		if asJSON {
			return printJSON(w, dto.FromPayloads(hits))
		}
		renderSearch(w, hits)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "result page")
}
