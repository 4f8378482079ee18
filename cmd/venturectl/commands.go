package main

import (
	"strings"

	"venture-ai-be/internal/dto"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	techField        string
	shortDescription string
	companyWebsite   string
	analysisId       string
	intent           string
	company          string
	limit            int
	offset           int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <content-ref>",
	Short: "Run the full pipeline over a pitch deck (file path, file:// or http(s) URL)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := container.AnalysisService.Analyze(cmd.Context(), &dto.AnalyzeRequest{
			UserId:           userId,
			SessionId:        sessionId,
			ContentRef:       args[0],
			TechField:        techField,
			ShortDescription: shortDescription,
			CompanyWebsite:   companyWebsite,
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question about an analysis",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := container.AnalysisService.Ask(cmd.Context(), &dto.AskRequest{
			UserId:     userId,
			SessionId:  sessionId,
			AnalysisId: analysisId,
			Question:   strings.Join(args, " "),
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var followupCmd = &cobra.Command{
	Use:   "followup",
	Short: "Generate due-diligence follow-up questions for an analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := container.AnalysisService.Followup(cmd.Context(), &dto.FollowupRequest{
			UserId:     userId,
			SessionId:  sessionId,
			AnalysisId: analysisId,
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <intent>",
	Short: "Classify a free-form request and route it to the matching task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentRef, _ := cmd.Flags().GetString("content")
		res, err := container.AnalysisService.Query(cmd.Context(), &dto.RoutedQueryRequest{
			UserId:           userId,
			SessionId:        sessionId,
			Intent:           strings.Join(args, " "),
			ContentRef:       contentRef,
			AnalysisId:       analysisId,
			TechField:        techField,
			ShortDescription: shortDescription,
			CompanyWebsite:   companyWebsite,
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := container.AnalysisService.List(cmd.Context(), &dto.ListAnalysesRequest{
			UserId:  userId,
			Company: company,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Print a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return err
		}
		res, err := container.AnalysisService.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create a session, or show it when --session is set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionId != "" {
			res, err := container.SessionService.Get(cmd.Context(), userId, sessionId)
			if err != nil {
				return err
			}
			return printJSON(res)
		}
		res, err := container.SessionService.Create(cmd.Context(), &dto.CreateSessionRequest{UserId: userId})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, queryCmd} {
		c.Flags().StringVar(&techField, "tech-field", "", "technology field hint")
		c.Flags().StringVar(&shortDescription, "description", "", "short company description")
		c.Flags().StringVar(&companyWebsite, "website", "", "company website")
	}
	queryCmd.Flags().String("content", "", "pitch deck reference")

	for _, c := range []*cobra.Command{askCmd, followupCmd, queryCmd} {
		c.Flags().StringVarP(&analysisId, "analysis", "a", "", "analysis id (defaults to the session's focused analysis)")
	}

	listCmd.Flags().StringVar(&company, "company", "", "filter by company name")
	listCmd.Flags().IntVar(&limit, "limit", 20, "page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "page offset")
}
