package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prepmark/prepmark-scoring/internal/bundle"
	"github.com/prepmark/prepmark-scoring/internal/logging"
	"github.com/prepmark/prepmark-scoring/internal/scoring"
	"github.com/prepmark/prepmark-scoring/internal/synth"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	logger := logging.New(envOr("SCORING_LOG_LEVEL", "info"), true)

	var err error
	switch os.Args[1] {
	case "score":
		err = runScore(os.Args[2:], logger)
	case "synth":
		err = runSynth(os.Args[2:], logger)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Msg(os.Args[1])
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  scorectl score -in bundle.json [-out responses.json] [-scheme scheme.yaml] [-tolerance 1e-4] [-parallel N]
  scorectl synth -out bundle.json [-questions 30] [-seed 1] [-answered 0.75] [-title T] [-scheme scheme.yaml]`)
}

// score loads a submission bundle, fills missing marks from the scheme,
// runs the engine and writes the ordered response list. Anomalies are
// logged, never fatal; only unreadable input fails the command.
func runScore(args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	in := fs.String("in", "", "submission bundle (json)")
	out := fs.String("out", "", "responses output path (default stdout)")
	schemePath := fs.String("scheme", "", "marking scheme (yaml)")
	tol := fs.Float64("tolerance", 0, "numeric tolerance override")
	par := fs.Int("parallel", 0, "worker count for batch scoring")
	_ = fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("score: -in is required")
	}

	b, err := bundle.Load(*in)
	if err != nil {
		return err
	}
	scheme, err := loadScheme(*schemePath)
	if err != nil {
		return err
	}
	scheme.Apply(b.Questions)

	var opts []scoring.Option
	if *tol > 0 {
		opts = append(opts, scoring.WithTolerance(*tol))
	}
	if *par > 1 {
		opts = append(opts, scoring.WithParallelism(*par))
	}
	eval := scoring.New(opts...)

	responses := eval.ProcessAnswers(b.Questions, b.Answers)
	for _, a := range scoring.DetectAnomalies(b.Questions, b.Answers) {
		logger.Warn().
			Int("question_index", a.QuestionIndex).
			Str("question_id", a.QuestionID).
			Str("reason", a.Reason).
			Str("detail", a.Detail).
			Msg("anomaly")
	}

	if *out == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(responses)
	}
	if err := bundle.Save(*out, responses); err != nil {
		return err
	}
	logger.Info().Str("test_id", b.TestID).Int("questions", len(b.Questions)).Str("out", *out).Msg("scored")
	return nil
}

func runSynth(args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("synth", flag.ExitOnError)
	out := fs.String("out", "", "bundle output path")
	questions := fs.Int("questions", 30, "question count")
	seed := fs.Int64("seed", 1, "random seed")
	answered := fs.Float64("answered", 0.75, "answered fraction 0..1")
	title := fs.String("title", "", "test title")
	schemePath := fs.String("scheme", "", "marking scheme (yaml)")
	_ = fs.Parse(args)
	if *out == "" {
		return fmt.Errorf("synth: -out is required")
	}

	scheme, err := loadScheme(*schemePath)
	if err != nil {
		return err
	}
	b := synth.Generate(synth.Plan{
		Seed:          *seed,
		Questions:     *questions,
		AnsweredRatio: *answered,
		Title:         *title,
		Scheme:        scheme,
	})
	if err := bundle.Save(*out, b); err != nil {
		return err
	}
	logger.Info().Str("test_id", b.TestID).Int("questions", len(b.Questions)).Str("out", *out).Msg("bundle written")
	return nil
}

func loadScheme(path string) (bundle.MarkingScheme, error) {
	if path == "" {
		return bundle.DefaultScheme(), nil
	}
	return bundle.LoadScheme(path)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
