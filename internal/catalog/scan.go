package catalog

import (
	"database/sql"
	"strconv"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		kind       string
		status     string
		output     sql.NullString
		level      sql.NullString
		mutation   sql.NullString
		seed       sql.NullString
		checksum   sql.NullString
		errMessage sql.NullString
		startedRaw string
		finished   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&kind,
		&run.Input,
		&output,
		&level,
		&mutation,
		&seed,
		&run.FPS,
		&run.Width,
		&run.Height,
		&run.Frames,
		&run.Symbols,
		&run.Mutated,
		&run.Padded,
		&checksum,
		&status,
		&errMessage,
		&startedRaw,
		&finished,
	); err != nil {
		return nil, err
	}

	run.Kind = Kind(kind)
	run.Status = Status(status)
	run.Output = output.String
	run.Posterization = level.String
	run.Mutation = mutation.String
	run.Checksum = checksum.String
	run.Error = errMessage.String
	if seed.Valid {
		run.Seed, _ = strconv.ParseUint(seed.String, 10, 64)
	}
	if started, err := time.Parse(timeLayout, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished.Valid {
		if t, err := time.Parse(timeLayout, finished.String); err == nil {
			run.FinishedAt = &t
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
