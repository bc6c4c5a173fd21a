package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"starpass/internal/platform/datetime"
	perr "starpass/internal/platform/errors"
	"starpass/internal/platform/logger"
	"starpass/internal/services/shifts/domain"
)

// Uploader issues one create-request per payload group, or previews them in
// check mode. Status blocks go to Out (stdout in the binaries); diagnostics
// go to the logger
type Uploader struct {
	API       domain.NeedAPI
	Out       io.Writer
	CheckMode bool
	Verbosity domain.Verbosity
}

// Upload walks the payload groups in stored order, 1-indexed. It refuses to
// proceed when the validation result is not valid: the violation is reported
// and the validation error returned, leaving the decision to continue or
// exit to the caller. Any transport failure is returned immediately; there
// is no per-group retry or partial-success continuation
func (u *Uploader) Upload(ctx context.Context, res domain.ValidationResult) error {
	log := logger.C(ctx)

	if !res.Valid {
		err := res.Err
		if err == nil {
			err = perr.Validationf("payload failed validation")
		}
		fmt.Fprintf(u.Out, "Upload skipped: payload failed validation\n  %v\n", err)
		log.Warn().Err(err).Msg("upload skipped on invalid payload")
		return err
	}

	heading := "HTTP API Response"
	if u.CheckMode {
		heading = "Check Mode Run (no data sent)"
	}

	for i, needID := range res.Data.NeedIDs() {
		env, _ := res.Data.Group(needID)

		title, err := u.API.NeedTitle(ctx, needID)
		if err != nil {
			log.Error().Err(err).Str("need_id", needID).Msg("need title lookup failed")
			return err
		}

		if !u.CheckMode {
			if err := u.API.CreateShifts(ctx, needID, env); err != nil {
				log.Error().Err(err).Str("need_id", needID).Msg("create shifts failed")
				return err
			}
		}

		if err := u.report(i+1, heading, needID, title, env); err != nil {
			return err
		}
	}
	return nil
}

// report writes one status block at the configured verbosity
func (u *Uploader) report(index int, heading, needID, title string, env domain.ShiftsEnvelope) error {
	fmt.Fprintf(u.Out, "\n%s\n", heading)

	switch u.Verbosity {
	case domain.VerbosityBasic:
		fmt.Fprintf(u.Out, "%d. %s: %d shift(s)\n", index, title, len(env.Shifts))

	case domain.VerbositySimple:
		fmt.Fprintf(u.Out, "%d. %s\n", index, title)
		fmt.Fprintf(u.Out, "   URL: %s\n", u.API.ShiftsURL(needID))
		fmt.Fprintf(u.Out, "   Shifts: %d\n", len(env.Shifts))
		for _, s := range env.Shifts {
			start, err := time.ParseInLocation(datetime.CanonicalLayout, s.Start, time.Local)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeDateParse, "report start %q", s.Start)
			}
			end := start.Add(time.Duration(s.Duration) * time.Minute)
			fmt.Fprintf(u.Out, "   %s: %s - %s\n", datetime.Human(start), start.Format("15:04"), end.Format("15:04"))
		}

	case domain.VerbosityDetailed:
		fmt.Fprintf(u.Out, "%d. %s\n", index, title)
		fmt.Fprintf(u.Out, "   URL: %s\n", u.API.ShiftsURL(needID))
		fmt.Fprintf(u.Out, "   Shifts: %d\n", len(env.Shifts))
		body, err := json.MarshalIndent(env, "   ", "  ")
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "encode report body")
		}
		fmt.Fprintf(u.Out, "   %s\n", body)
	}
	return nil
}
