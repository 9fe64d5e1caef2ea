package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"animehub/internal/aggregator"
	"animehub/internal/app"
	"animehub/pkg/models"
)

// newAggregateCmd builds `animehub <entity> <source> <id>`.
func newAggregateCmd(entity models.EntityType) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <source> <id>", entity),
		Short: fmt.Sprintf("Look up one %s and merge it across catalogs", entity),
		Long: fmt.Sprintf(`Fetch a %s from the given catalog (mal, anilist or kitsu), resolve the same
entry in the other catalogs and print the merged record. Catalogs that fail are
listed but do not fail the command.`, entity),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := models.ParseSource(args[0])
			if err != nil {
				return err
			}
			primary := models.SourceID{Source: source, Value: args[1]}

			agg := app.NewAggregator(cfg, log)
			res, err := agg.Aggregate(cmd.Context(), entity, primary)
			if err != nil {
				var ae *aggregator.AggregateError
				if errors.As(err, &ae) {
					return fmt.Errorf("%s %s: %s (%s)", entity, primary, ae.Message, ae.Kind)
				}
				return err
			}

			w, asJSON := out(cmd)
			if asJSON {
				return printJSON(w, res)
			}
			switch r := res.(type) {
			case *models.AggregateResult[models.AnimeRecord]:
				renderAnime(w, r)
			case *models.AggregateResult[models.CharacterRecord]:
				renderCharacter(w, r)
			case *models.AggregateResult[models.PersonRecord]:
				renderPerson(w, r)
			}
			return nil
		},
	}
}
