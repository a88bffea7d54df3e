package cmd

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serves scheduled invocations as an AWS Lambda function",
	Long: `Hands control to the AWS Lambda runtime. Every scheduled event runs one
archive pass and returns the run summary as the invocation result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lambda.Start(newScheduledHandler(globalOptions(cmd)))
		return nil
	},
}

// newScheduledHandler adapts runOnce to the Lambda handler signature.
// The event payload carries nothing the run needs.
func newScheduledHandler(opts runOptions) func(context.Context, events.CloudWatchEvent) (*domain.Summary, error) {
	return func(ctx context.Context, event events.CloudWatchEvent) (*domain.Summary, error) {
		return runOnce(ctx, opts)
	}
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
