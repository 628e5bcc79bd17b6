package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// DefaultBatchSize is used when a batch job is started with a non-positive batch size.
const DefaultBatchSize = 500

// fieldStore implements FieldStore.
type fieldStore struct {
	txManager   database.TxManager
	repo        PIIRepository
	checkpoints CheckpointRepository
	codec       RecordCodec
	keys        KeyRotator
	concurrency int
	logger      *slog.Logger
}

// NewFieldStore creates a FieldStore. concurrency bounds how many tables a rotation
// processes at once.
func NewFieldStore(
	txManager database.TxManager,
	repo PIIRepository,
	checkpoints CheckpointRepository,
	codec RecordCodec,
	keys KeyRotator,
	concurrency int,
	logger *slog.Logger,
) FieldStore {
	if concurrency < 1 {
		concurrency = 1
	}
	return &fieldStore{
		txManager:   txManager,
		repo:        repo,
		checkpoints: checkpoints,
		codec:       codec,
		keys:        keys,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *fieldStore) InsertUnique(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (*piiDomain.FieldRecord, error) {
	if err := s.CheckUnique(ctx, table, field, plaintext, uuid.Nil); err != nil {
		return nil, err
	}
	return s.codec.Seal(ctx, table, field, plaintext)
}

func (s *fieldStore) CheckUnique(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
	excludeID uuid.UUID,
) error {
	t, spec, err := lookupField(table, field)
	if err != nil {
		return err
	}
	if !spec.Unique {
		_, err := s.codec.Normalize(table, field, plaintext)
		return err
	}

	ids, err := s.find(ctx, t, spec, plaintext, excludeID)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return fmt.Errorf("%w: %s.%s", piiDomain.ErrDuplicateValue, table, field)
	}
	return nil
}

func (s *fieldStore) LookupByPlaintext(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (uuid.UUID, error) {
	ids, err := s.LookupAll(ctx, table, field, plaintext)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, piiDomain.ErrNotFound
	}
	return ids[0], nil
}

func (s *fieldStore) LookupAll(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) ([]uuid.UUID, error) {
	t, spec, err := lookupField(table, field)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, t, spec, plaintext, uuid.Nil)
}

func (s *fieldStore) FindPerson(
	ctx context.Context,
	field piiDomain.FieldName,
	plaintext string,
) (map[string][]uuid.UUID, error) {
	tables := piiDomain.TablesWithField(field)
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %s", piiDomain.ErrFieldNotIndexed, field)
	}

	found := make(map[string][]uuid.UUID)
	for _, t := range tables {
		spec, err := t.Field(field)
		if err != nil {
			return nil, err
		}
		ids, err := s.find(ctx, t, spec, plaintext, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			found[t.Name] = ids
		}
	}
	return found, nil
}

// find matches plaintext against the hash column under every retained key version.
func (s *fieldStore) find(
	ctx context.Context,
	t *piiDomain.Table,
	spec piiDomain.FieldSpec,
	plaintext string,
	excludeID uuid.UUID,
) ([]uuid.UUID, error) {
	indexes, err := s.codec.Indexes(ctx, t.Name, spec.Name, plaintext)
	if err != nil {
		return nil, err
	}

	hashes := make([][]byte, 0, len(indexes))
	for _, index := range indexes {
		hashes = append(hashes, index.Hash)
	}

	ids, err := s.repo.FindIDsByHashes(ctx, t.Name, spec, hashes, excludeID)
	if err != nil {
		return nil, apperrors.Wrap(err, fmt.Sprintf("failed to look up %s.%s", t.Name, spec.Name))
	}
	return ids, nil
}

func (s *fieldStore) RotateAll(ctx context.Context, batchSize int) (int, error) {
	active, err := s.keys.ActiveKey()
	if err != nil {
		return 0, err
	}
	startedAt := time.Now().UTC()

	tables := piiDomain.Tables()
	results := make([]*piiDomain.BatchResult, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, t := range tables {
		g.Go(func() error {
			result, err := s.rotateTable(gctx, t, active.Version, startedAt, batchSize)
			results[i] = result
			return err
		})
	}
	err = g.Wait()

	var processed, failed int
	for _, result := range results {
		if result == nil {
			continue
		}
		processed += result.Processed
		failed += result.Failed
	}

	s.logger.Info("re-encryption finished",
		slog.Uint64("key_version", uint64(active.Version)),
		slog.Int("total", processed),
		slog.Int("failed", failed),
		slog.Bool("completed", err == nil),
	)
	return processed, err
}

func (s *fieldStore) RotateTable(ctx context.Context, table string, batchSize int) (*piiDomain.BatchResult, error) {
	t, err := piiDomain.LookupTable(table)
	if err != nil {
		return nil, err
	}
	active, err := s.keys.ActiveKey()
	if err != nil {
		return nil, err
	}
	return s.rotateTable(ctx, t, active.Version, time.Now().UTC(), batchSize)
}

// rotateTable re-seals the stale fields of one table in id order. Each batch commits
// together with its checkpoint, so an interrupted run resumes after the last committed
// row as long as the active version did not change in between. Rows touched after
// startedAt were written under the active key by the application and are skipped.
func (s *fieldStore) rotateTable(
	ctx context.Context,
	t *piiDomain.Table,
	activeVersion uint,
	startedAt time.Time,
	batchSize int,
) (*piiDomain.BatchResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	result := &piiDomain.BatchResult{Table: t.Name}

	afterID, err := s.resumeFrom(ctx, piiDomain.JobRotate, t.Name, activeVersion)
	if err != nil {
		return result, err
	}

	for batch := 1; ; batch++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows, err := s.repo.ListStale(ctx, t, activeVersion, startedAt, afterID, batchSize)
		if err != nil {
			return result, apperrors.Wrap(err, fmt.Sprintf("failed to list stale rows of %s", t.Name))
		}
		if len(rows) == 0 {
			break
		}

		var processed, failed, skipped int
		err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
			processed, failed, skipped = 0, 0, 0
			for _, row := range rows {
				outcome, err := s.resealRow(ctx, t, row, activeVersion)
				if err != nil {
					return err
				}
				switch outcome {
				case resealWritten:
					processed++
				case resealFailed:
					failed++
				case resealSkipped:
					skipped++
				}
			}
			return s.checkpoints.Save(ctx, &piiDomain.Checkpoint{
				Job:           piiDomain.JobRotate,
				Table:         t.Name,
				LastID:        rows[len(rows)-1].ID,
				TargetVersion: activeVersion,
				UpdatedAt:     time.Now().UTC(),
			})
		})
		if err != nil {
			return result, err
		}

		result.Processed += processed
		result.Failed += failed
		result.Skipped += skipped
		afterID = rows[len(rows)-1].ID

		s.logger.Info("re-encrypted batch",
			slog.String("table", t.Name),
			slog.Int("batch", batch),
			slog.Int("total", result.Processed),
			slog.Int("failed", result.Failed),
			slog.Int("skipped", result.Skipped),
		)

		if len(rows) < batchSize {
			break
		}
	}

	if err := s.checkpoints.Delete(ctx, piiDomain.JobRotate, t.Name); err != nil {
		return result, err
	}
	return result, nil
}

type resealOutcome int

const (
	resealUnchanged resealOutcome = iota
	resealWritten
	resealFailed
	resealSkipped
)

// resealRow moves the stale fields of row to the active key version.
//
// A row that cannot be decrypted, or whose re-sealed value would collide with another
// row of the table, is left as it is and reported as failed. Collisions happen when
// the same value was stored twice under different key versions, which the per-version
// UNIQUE indexes cannot see. A row rewritten since it was listed is skipped: the new
// value was already sealed under the active key.
func (s *fieldStore) resealRow(
	ctx context.Context,
	t *piiDomain.Table,
	row *piiDomain.Row,
	activeVersion uint,
) (resealOutcome, error) {
	stale := row.StaleFields(activeVersion)
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })

	previous := make([]*piiDomain.FieldRecord, 0, len(stale))
	records := make([]*piiDomain.FieldRecord, 0, len(stale))
	for _, name := range stale {
		record := row.Fields[name]
		resealed, err := s.codec.Reseal(ctx, t.Name, record)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrIntegrity) {
				return resealUnchanged, err
			}
			s.logger.ErrorContext(ctx, "skipping row that cannot be re-encrypted",
				slog.String("table", t.Name),
				slog.String("id", row.ID.String()),
				slog.Any("error", err),
			)
			return resealFailed, nil
		}
		if resealed == record {
			continue
		}
		previous = append(previous, record)
		records = append(records, resealed)
	}
	if len(records) == 0 {
		return resealUnchanged, nil
	}

	for _, record := range records {
		spec, err := t.Field(record.Field)
		if err != nil {
			return resealUnchanged, err
		}
		if !spec.Unique || record.IsNull() || record.Index == nil {
			continue
		}
		ids, err := s.repo.FindIDsByHashes(ctx, t.Name, spec, [][]byte{record.Index.Hash}, row.ID)
		if err != nil {
			return resealUnchanged, apperrors.Wrap(err, fmt.Sprintf("failed to look up %s.%s", t.Name, spec.Name))
		}
		if len(ids) > 0 {
			s.logger.WarnContext(ctx, "skipping row whose value is stored twice",
				slog.String("event", "data_quality_event"),
				slog.String("table", t.Name),
				slog.String("field", string(spec.Name)),
				slog.String("id", row.ID.String()),
				slog.String("duplicate_of", ids[0].String()),
			)
			return resealFailed, nil
		}
	}

	updated, err := s.repo.UpdateFields(ctx, t, row.ID, previous, records)
	if err != nil {
		return resealUnchanged, apperrors.Wrap(err, fmt.Sprintf("failed to update %s row %s", t.Name, row.ID))
	}
	if !updated {
		s.logger.DebugContext(ctx, "skipping row changed during re-encryption",
			slog.String("table", t.Name),
			slog.String("id", row.ID.String()),
		)
		return resealSkipped, nil
	}
	return resealWritten, nil
}

// resumeFrom returns the id to continue a job after, or uuid.Nil to start over.
func (s *fieldStore) resumeFrom(ctx context.Context, job, table string, targetVersion uint) (uuid.UUID, error) {
	checkpoint, err := s.checkpoints.Get(ctx, job, table)
	if err != nil {
		return uuid.Nil, err
	}
	if checkpoint == nil || checkpoint.TargetVersion != targetVersion {
		return uuid.Nil, nil
	}

	s.logger.Info("resuming from checkpoint",
		slog.String("job", job),
		slog.String("table", table),
		slog.String("last_id", checkpoint.LastID.String()),
	)
	return checkpoint.LastID, nil
}

func (s *fieldStore) Backfill(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	legacyColumn string,
	batchSize int,
) (*piiDomain.BatchResult, error) {
	t, spec, err := lookupField(table, field)
	if err != nil {
		return nil, err
	}
	if legacyColumn == "" {
		legacyColumn = t.LegacyColumns[field]
	}
	if legacyColumn == "" {
		return nil, fmt.Errorf("%w: no legacy column for %s.%s", apperrors.ErrInvalidInput, table, field)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	job := piiDomain.BackfillJob(table, field)
	result := &piiDomain.BatchResult{Table: table}

	// Backfill checkpoints are not tied to a key version.
	afterID, err := s.resumeFrom(ctx, job, table, 0)
	if err != nil {
		return result, err
	}

	for batch := 1; ; batch++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows, err := s.repo.ListLegacy(ctx, t, spec, legacyColumn, afterID, batchSize)
		if err != nil {
			return result, apperrors.Wrap(err, fmt.Sprintf("failed to list legacy rows of %s", table))
		}
		if len(rows) == 0 {
			break
		}

		var processed, failed int
		err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
			processed, failed = 0, 0
			for _, row := range rows {
				record, err := s.backfillValue(ctx, t, spec, row)
				if err != nil {
					if !apperrors.Is(err, apperrors.ErrInvalidInput) && !apperrors.Is(err, apperrors.ErrConflict) {
						return err
					}
					failed++
					s.logger.WarnContext(ctx, "skipping legacy value",
						slog.String("table", table),
						slog.String("field", string(field)),
						slog.String("id", row.ID.String()),
						slog.Any("error", err),
					)
					continue
				}
				if err := s.repo.WriteBackfill(ctx, t, legacyColumn, row.ID, record); err != nil {
					return apperrors.Wrap(err, fmt.Sprintf("failed to backfill %s row %s", table, row.ID))
				}
				processed++
			}
			return s.checkpoints.Save(ctx, &piiDomain.Checkpoint{
				Job:       job,
				Table:     table,
				LastID:    rows[len(rows)-1].ID,
				UpdatedAt: time.Now().UTC(),
			})
		})
		if err != nil {
			return result, err
		}

		result.Processed += processed
		result.Failed += failed
		afterID = rows[len(rows)-1].ID

		s.logger.Info("backfilled batch",
			slog.String("table", table),
			slog.String("field", string(field)),
			slog.Int("batch", batch),
			slog.Int("total", result.Processed),
			slog.Int("failed", result.Failed),
		)

		if len(rows) < batchSize {
			break
		}
	}

	if err := s.checkpoints.Delete(ctx, job, table); err != nil {
		return result, err
	}
	return result, nil
}

func (s *fieldStore) backfillValue(
	ctx context.Context,
	t *piiDomain.Table,
	spec piiDomain.FieldSpec,
	row *piiDomain.LegacyRow,
) (*piiDomain.FieldRecord, error) {
	if spec.Unique {
		if err := s.CheckUnique(ctx, t.Name, spec.Name, row.Value, row.ID); err != nil {
			return nil, err
		}
	}
	return s.codec.SealOptional(ctx, t.Name, spec.Name, &row.Value)
}

func (s *fieldStore) PendingCount(ctx context.Context) (map[string]int64, error) {
	active, err := s.keys.ActiveKey()
	if err != nil {
		return nil, err
	}

	pending := make(map[string]int64)
	for _, t := range piiDomain.Tables() {
		count, err := s.repo.CountStale(ctx, t, active.Version)
		if err != nil {
			return nil, apperrors.Wrap(err, fmt.Sprintf("failed to count stale rows of %s", t.Name))
		}
		pending[t.Name] = count
	}
	return pending, nil
}

func (s *fieldStore) CountByKeyVersion(ctx context.Context) (map[uint]int64, error) {
	return s.repo.CountByKeyVersion(ctx)
}

func lookupField(table string, field piiDomain.FieldName) (*piiDomain.Table, piiDomain.FieldSpec, error) {
	t, err := piiDomain.LookupTable(table)
	if err != nil {
		return nil, piiDomain.FieldSpec{}, err
	}
	spec, err := t.Field(field)
	if err != nil {
		return nil, piiDomain.FieldSpec{}, err
	}
	return t, spec, nil
}
