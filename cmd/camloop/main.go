// Command camloop records a short synthetic clip through the full
// pipeline: device acquisition, throttled preview rendering, chunked
// recording and artifact assembly. It stands in for a host UI and is
// useful for exercising the pipeline without real camera hardware.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/camloop/camloop"
	"github.com/camloop/camloop/capture"
	"github.com/camloop/camloop/record"
	"github.com/camloop/camloop/video"
)

var app = cli.NewApp()

func init() {
	logrus.SetLevel(logrus.WarnLevel)

	app.Name = "camloop"
	app.Usage = "Camera recording pipeline demo"
	app.UsageText = "camloop [command] [options]"
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:    "record",
			Aliases: []string{"r"},
			Usage:   "Record a synthetic clip and save it to disk",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "seconds, s", Value: 5, Usage: "recording length"},
				cli.StringFlag{Name: "quality, q", Value: "medium", Usage: "low, medium or high"},
				cli.StringFlag{Name: "out, o", Value: "camloop.webm", Usage: "output file"},
				cli.StringFlag{Name: "facing", Value: "user", Usage: "user or environment"},
				cli.IntFlag{Name: "brightness", Value: video.NeutralPercent, Usage: "brightness percent"},
				cli.BoolFlag{Name: "grayscale", Usage: "apply the grayscale preset"},
				cli.BoolFlag{Name: "mirror", Usage: "mirror the preview"},
			},
			Action: runRecord,
		},
		{
			Name:    "probe",
			Aliases: []string{"p"},
			Usage:   "Print the negotiated recording format and bitrates",
			Action:  runProbe,
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func runRecord(c *cli.Context) error {
	quality, err := parseQuality(c.String("quality"))
	if err != nil {
		return err
	}
	seconds := c.Int("seconds")
	if seconds <= 0 {
		return fmt.Errorf("seconds must be positive, got %d", seconds)
	}

	cfg := camloop.DefaultConfig()
	cfg.Quality = quality
	cfg.Constraints.Facing = capture.FacingMode(c.String("facing"))
	cfg.Constraints.Width = 320
	cfg.Constraints.Height = 240

	rec, err := camloop.New(&synthProvider{}, &synthFactory{}, cfg)
	if err != nil {
		return err
	}
	defer rec.Close()

	rec.SetFilter(filterFromFlags(c))

	ctx := context.Background()
	if err := rec.StartPreview(ctx); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	if err := rec.StartRecording(); err != nil {
		return fmt.Errorf("recording failed: %w", err)
	}

	bar := newBar(seconds*10, "recording")
	for i := 0; i < seconds*10; i++ {
		time.Sleep(100 * time.Millisecond)
		bar.Describe(fmt.Sprintf("recording %.0f fps, mic %.2f", rec.FPS(), rec.AudioLevel().RMS))
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	artifact, err := rec.StopRecording()
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := artifact.Save(out); err != nil {
		return err
	}

	fmt.Printf("saved    %s (%d bytes)\n", out, artifact.Size())
	fmt.Printf("format   %s\n", artifact.MimeType())
	fmt.Printf("filter   %s\n", rec.FilterExpression())
	fmt.Printf("digest   %x\n", artifact.Digest())
	return nil
}

func runProbe(*cli.Context) error {
	mimeType, err := record.SelectMimeType(&synthFactory{})
	if err != nil {
		return err
	}
	fmt.Printf("format   %s\n", mimeType)
	for _, q := range []record.Quality{record.QualityLow, record.QualityMedium, record.QualityHigh} {
		v, a := q.BitRates()
		fmt.Printf("%-8s video %d bps, audio %d bps\n", q, v, a)
	}
	return nil
}

func parseQuality(name string) (record.Quality, error) {
	switch name {
	case "low":
		return record.QualityLow, nil
	case "medium":
		return record.QualityMedium, nil
	case "high":
		return record.QualityHigh, nil
	default:
		return 0, fmt.Errorf("unknown quality %q, want low, medium or high", name)
	}
}

func filterFromFlags(c *cli.Context) video.FilterState {
	state := video.DefaultFilterState()
	state.Brightness = c.Int("brightness")
	state.Mirror = c.Bool("mirror")
	if c.Bool("grayscale") {
		state.Preset = video.PresetGrayscale
	}
	return state
}

func newBar(max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
