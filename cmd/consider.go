package cmd

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chittyos/intake/internal/bootstrap"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var considerFlags struct {
	source      string
	sourceRef   string
	sourceHash  string
	fileName    string
	sizeBytes   int64
	mimeType    string
	submittedBy string
	caseID      string
	caseName    string
	entityNames []string
	docType     string
	urgent      bool
	tags        []string
}

var considerCmd = &cobra.Command{
	Use:   "consider",
	Short: "Submit one document for consideration",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, intakeSvc *usecaseintake.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "consider"))

		result, err := intakeSvc.Consider(ctx, usecaseintake.ConsiderInput{
			Source:      considerFlags.source,
			SourceRef:   considerFlags.sourceRef,
			SourceHash:  considerFlags.sourceHash,
			FileName:    considerFlags.fileName,
			SizeBytes:   considerFlags.sizeBytes,
			MimeType:    considerFlags.mimeType,
			SubmittedBy: considerFlags.submittedBy,
			Hints: domainintake.Hints{
				CaseID:      considerFlags.caseID,
				CaseName:    considerFlags.caseName,
				EntityNames: considerFlags.entityNames,
				DocType:     considerFlags.docType,
				Urgent:      considerFlags.urgent,
				Tags:        considerFlags.tags,
			},
		})
		if err != nil {
			return errs.Wrap(err, "consider submission")
		}

		return printJSON(cmd, result)
	}),
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return errs.Wrap(err, "encode output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(considerCmd)

	considerCmd.Flags().StringVar(&considerFlags.source, "source", "", "Source system tag (cloud_drive, email, court_gateway, client_portal, direct_url, staging_blob)")
	considerCmd.Flags().StringVar(&considerFlags.sourceRef, "source-ref", "", "Opaque source reference, e.g. drive://<file_id>")
	considerCmd.Flags().StringVar(&considerFlags.sourceHash, "source-hash", "", "Pre-computed content hash, if known")
	considerCmd.Flags().StringVar(&considerFlags.fileName, "file-name", "", "Submitted file name")
	considerCmd.Flags().Int64Var(&considerFlags.sizeBytes, "size-bytes", 0, "File size in bytes, if known")
	considerCmd.Flags().StringVar(&considerFlags.mimeType, "mime-type", "", "MIME type, if known")
	considerCmd.Flags().StringVar(&considerFlags.submittedBy, "submitted-by", "", "Submitting identity")
	considerCmd.Flags().StringVar(&considerFlags.caseID, "case-id", "", "Case number hint")
	considerCmd.Flags().StringVar(&considerFlags.caseName, "case-name", "", "Case name hint")
	considerCmd.Flags().StringSliceVar(&considerFlags.entityNames, "entity", nil, "Entity name hint (repeatable)")
	considerCmd.Flags().StringVar(&considerFlags.docType, "doc-type", "", "Document type hint")
	considerCmd.Flags().BoolVar(&considerFlags.urgent, "urgent", false, "Mark the submission urgent")
	considerCmd.Flags().StringSliceVar(&considerFlags.tags, "tag", nil, "Free-form tag (repeatable)")

	_ = considerCmd.MarkFlagRequired("source")
	_ = considerCmd.MarkFlagRequired("source-ref")
	_ = considerCmd.MarkFlagRequired("file-name")
}
