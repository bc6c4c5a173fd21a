package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"starpass/internal/adapters/amplify"
	"starpass/internal/platform/config"
	perr "starpass/internal/platform/errors"
	"starpass/internal/platform/logger"
	"starpass/internal/services/shifts/domain"
	"starpass/internal/services/shifts/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fInput     = flag.String("input", "", "path to the shift CSV")
		fCheck     = flag.Bool("check", true, "check mode: preview requests without sending")
		fVerbosity = flag.String("verbosity", "simple", "report detail: basic | simple | detailed")
		fDumpJSON  = flag.Bool("dump-json", false, "also write the grouped payload JSON next to the input")
	)
	flag.Parse()

	if *fInput == "" {
		l.Fatal().Msg("must provide -input")
	}
	verbosity, err := domain.ParseVerbosity(*fVerbosity)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -verbosity")
	}

	root := config.New()
	ampCfg := root.Prefix("AMPLIFY_")
	client := amplify.NewClient(amplify.Options{
		BaseURL: ampCfg.MayString("BASE_URL", ""),
		Token:   ampCfg.MustString("TOKEN"),
		Timeout: root.MayDuration("HTTP_TIMEOUT", 3*time.Second),
	})

	runID := uuid.NewString()
	ctx := logger.WithRun(context.Background(), runID)
	log := logger.C(ctx)
	log.Info().Str("input", *fInput).Bool("check_mode", *fCheck).Str("verbosity", verbosity.String()).Msg("shift upload starting")

	rows, err := service.ReadCSVFile(*fInput)
	if err != nil {
		log.Fatal().Err(err).Msg("csv load failed")
	}
	payload, err := service.Transform(rows)
	if err != nil {
		log.Fatal().Err(err).Msg("transform failed")
	}

	if *fDumpJSON {
		path := strings.TrimSuffix(*fInput, filepath.Ext(*fInput)) + ".json"
		b, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("encode payload dump failed")
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			log.Fatal().Err(err).Msg("write payload dump failed")
		}
		log.Info().Str("path", path).Msg("payload dump written")
	}

	result := service.Validate(payload)

	uploader := &service.Uploader{
		API:       client,
		Out:       os.Stdout,
		CheckMode: *fCheck,
		Verbosity: verbosity,
	}
	if err := uploader.Upload(ctx, result); err != nil {
		if perr.Fatal(err) {
			log.Fatal().Err(err).Msg("upload failed")
		}
		// validation failures degrade gracefully: the violation was already
		// reported and the upload skipped
		log.Warn().Err(err).Msg("upload skipped")
		return
	}
	log.Info().Int("groups", payload.Len()).Msg("shift upload complete")
}
