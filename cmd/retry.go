package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chittyos/intake/internal/bootstrap"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var retryFlags struct {
	caseID      string
	caseName    string
	entityNames []string
	docType     string
	urgent      bool
}

var retryCmd = &cobra.Command{
	Use:   "retry <submission_id>",
	Short: "Resubmit a retryable rejection with merged hints",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, intakeSvc *usecaseintake.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "retry"))

		result, err := intakeSvc.Retry(ctx, cmd.Flags().Arg(0), domainintake.Hints{
			CaseID:      retryFlags.caseID,
			CaseName:    retryFlags.caseName,
			EntityNames: retryFlags.entityNames,
			DocType:     retryFlags.docType,
			Urgent:      retryFlags.urgent,
		})
		if err != nil {
			return errs.Wrap(err, "retry submission")
		}

		return printJSON(cmd, result)
	}),
}

func init() {
	rootCmd.AddCommand(retryCmd)

	retryCmd.Flags().StringVar(&retryFlags.caseID, "case-id", "", "Case number hint to merge")
	retryCmd.Flags().StringVar(&retryFlags.caseName, "case-name", "", "Case name hint to merge")
	retryCmd.Flags().StringSliceVar(&retryFlags.entityNames, "entity", nil, "Entity name hint to merge (repeatable)")
	retryCmd.Flags().StringVar(&retryFlags.docType, "doc-type", "", "Document type hint to merge")
	retryCmd.Flags().BoolVar(&retryFlags.urgent, "urgent", false, "Mark the resubmission urgent")
}
