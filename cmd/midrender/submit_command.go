package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"midrender/internal/overrides"
	"midrender/internal/scene"
	"midrender/internal/submit"
)

const defaultManifestName = "midrender.toml"

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var (
		allScenes  bool
		take       string
		frameStart int
		frameEnd   int
		output     string
		chunkSize  int
		priority   int
		template   string
	)

	cmd := &cobra.Command{
		Use:   "submit [manifest]",
		Short: "Submit render job(s) to the MidRender farm",
		Long: `Submit reads a project manifest exported by a host integration and places
one descriptor per selected job unit into the local submissions dropbox.
The running MidRender Monitor picks them up and routes them to the leader.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath := defaultManifestName
			if len(args) == 1 {
				manifestPath = args[0]
			}
			host, err := scene.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			ov, err := overridesFromFlags(cmd.Flags(), frameStart, frameEnd, output)
			if err != nil {
				return err
			}

			sub, err := ctx.submitter()
			if err != nil {
				return err
			}

			result, err := sub.Submit(cmd.Context(), submit.Request{
				Host:       host,
				Selection:  scene.Selection{AllScenes: allScenes, Take: take},
				Overrides:  ov,
				TemplateID: template,
				ChunkSize:  chunkSize,
				Priority:   priority,
			})
			if err != nil {
				if submit.Classify(err) == submit.SeverityRateLimit {
					fmt.Fprintln(cmd.OutOrStdout(), "Already submitted -- please wait a few seconds.")
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted %d job%s\n", len(result.Jobs), plural(len(result.Jobs)))
			for _, job := range result.Jobs {
				fmt.Fprintf(out, "  %s -> %s\n", job.Name, job.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allScenes, "all-scenes", false, "Submit every scene in the document as a separate job")
	cmd.Flags().StringVar(&take, "take", "", "Submit a specific take instead of the current one")
	cmd.Flags().IntVar(&frameStart, "frame-start", 0, "Override the start frame (requires --frame-end)")
	cmd.Flags().IntVar(&frameEnd, "frame-end", 0, "Override the end frame (requires --frame-start)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Override the output path")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Frames per render chunk (default from config)")
	cmd.Flags().IntVar(&priority, "priority", 0, "Job priority 1-100, higher is rendered first (default from config)")
	cmd.Flags().StringVar(&template, "template", "", "Farm-side job template id (default from config)")

	return cmd
}

// overridesFromFlags maps explicit flags onto override toggles: passing a
// value enables the corresponding override, leaving it out keeps the scene
// value.
func overridesFromFlags(flags *pflag.FlagSet, frameStart, frameEnd int, output string) (overrides.Values, error) {
	var ov overrides.Values

	startSet := flags.Changed("frame-start")
	endSet := flags.Changed("frame-end")
	if startSet != endSet {
		return overrides.Values{}, errors.New("range override needs both --frame-start and --frame-end")
	}
	if startSet {
		ov.RangeEnabled = true
		ov.FrameStart = frameStart
		ov.FrameEnd = frameEnd
	}
	if flags.Changed("output") {
		ov.OutputEnabled = true
		ov.OutputPath = output
	}
	return ov, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
