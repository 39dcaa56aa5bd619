package main

import (
	"github.com/spf13/cobra"

	"github.com/careerpath/mentor-server-go/internal/model"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics across your sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := newClient().Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func assessSkillsCmd() *cobra.Command {
	var req model.SkillAssessmentRequest
	var targetRole string

	cmd := &cobra.Command{
		Use:   "assess-skills <skill>...",
		Short: "Get a structured assessment of your skills",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Skills = args
			if targetRole != "" {
				req.TargetRole = &targetRole
			}

			assessment, err := newClient().AssessSkills(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), assessment)
			}
			printAssessment(cmd.OutOrStdout(), assessment)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetRole, "target-role", "", "Role to assess against")
	cmd.Flags().BoolVar(&req.IncludeGapAnalysis, "gaps", false, "Include a gap analysis")
	return cmd
}
