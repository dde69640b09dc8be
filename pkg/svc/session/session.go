package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/devantler-tech/ksync/pkg/client/netretry"
	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/store"
	"github.com/devantler-tech/ksync/pkg/svc/codec"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/diffview"
	"github.com/devantler-tech/ksync/pkg/svc/merge"
	"github.com/devantler-tech/ksync/pkg/utils/parallel"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrClosed is returned by every operation on a closed session.
	ErrClosed = errors.New("session is closed")
	// ErrStoreRequired is returned when a session is created without both stores.
	ErrStoreRequired = errors.New("both primary and secondary stores are required")
	// ErrUnknownModel is returned when a model id was never built in this session.
	ErrUnknownModel = errors.New("unknown diff model")
	// ErrUnknownResult is returned when an identity has no active result.
	ErrUnknownResult = errors.New("no comparison result for resource")
)

// Side names which store a fetch targets.
type Side string

// Sides.
const (
	SidePrimary   Side = "primary"
	SideSecondary Side = "secondary"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCodec replaces the codec used for decoded views.
func WithCodec(payloadCodec codec.Codec) Option {
	return func(s *Session) {
		s.decoder = codec.NewDecoder(payloadCodec)
	}
}

// Session is one interactive comparison between a primary and a secondary store.
type Session struct {
	id        uuid.UUID
	cfg       Config
	primary   store.Store
	secondary store.Store

	comparator    *compare.Comparator
	decoder       *codec.Decoder
	reconstructor *merge.Reconstructor
	cache         *diffview.Cache
	executor      *parallel.Executor
	logger        logrus.FieldLogger

	mu        sync.Mutex
	closed    bool
	results   []compare.Result
	models    map[string]*diffview.Model
	selection diffview.Selection
}

// New creates a session comparing primary against secondary.
func New(cfg Config, primary, secondary store.Store, opts ...Option) (*Session, error) {
	if primary == nil || secondary == nil {
		return nil, ErrStoreRequired
	}

	cfg = cfg.withDefaults()

	for _, kind := range cfg.Kinds {
		if !slices.Contains(resource.ValidKinds(), kind) {
			return nil, fmt.Errorf("%w: %q", resource.ErrUnknownKind, kind)
		}
	}

	session := &Session{
		id:        uuid.New(),
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		comparator: compare.NewComparator(
			compare.WithLabels(cfg.PrimaryLabel, cfg.SecondaryLabel),
			compare.WithGenerator(cfg.generator()),
		),
		decoder:       codec.NewDecoder(nil),
		reconstructor: merge.NewReconstructor(),
		cache:         diffview.NewCache(cfg.CacheSize),
		executor:      parallel.NewExecutor(cfg.Parallelism),
		logger:        logrus.StandardLogger(),
		models:        make(map[string]*diffview.Model),
	}

	for _, opt := range opts {
		opt(session)
	}

	session.logger = session.logger.WithField("session", session.id.String())

	return session, nil
}

// ID returns the unique session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Config returns the effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Store returns the store on side.
func (s *Session) Store(side Side) store.Store {
	if side == SidePrimary {
		return s.primary
	}

	return s.secondary
}

type fetchTarget struct {
	side      Side
	kind      resource.Kind
	namespace string
}

type fetched struct {
	side      Side
	snapshots []resource.Snapshot
}

// Compare fetches every configured kind and namespace from both stores
// concurrently, then compares the snapshots. The results replace the active
// results and the selection is cleared. A transport failure aborts the
// comparison and leaves the previous results in place.
func (s *Session) Compare(ctx context.Context) ([]compare.Result, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	var targets []fetchTarget

	for _, side := range []Side{SidePrimary, SideSecondary} {
		for _, kind := range s.cfg.Kinds {
			for _, namespace := range s.cfg.namespaces() {
				targets = append(targets, fetchTarget{side: side, kind: kind, namespace: namespace})
			}
		}
	}

	jobs := make([]parallel.Job[fetched], len(targets))
	for index, target := range targets {
		jobs[index] = s.fetchJob(target)
	}

	batches, err := parallel.Collect(ctx, s.executor, jobs...)
	if err != nil {
		return nil, fmt.Errorf("fetch resources: %w", err)
	}

	var primary, secondary []resource.Snapshot

	for _, batch := range batches {
		if batch.side == SidePrimary {
			primary = append(primary, batch.snapshots...)
		} else {
			secondary = append(secondary, batch.snapshots...)
		}
	}

	results := s.comparator.CompareAll(primary, secondary)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	s.results = results
	s.models = make(map[string]*diffview.Model)
	s.selection = diffview.Selection{}

	summary := compare.Summarize(results)
	s.logger.WithFields(logrus.Fields{
		"resources":     len(results),
		"identical":     summary[compare.StatusIdentical],
		"different":     summary[compare.StatusDifferent],
		"primaryOnly":   summary[compare.StatusPrimaryOnly],
		"secondaryOnly": summary[compare.StatusSecondaryOnly],
	}).Debug("comparison complete")

	return compare.DeepCopyAll(results), nil
}

func (s *Session) fetchJob(target fetchTarget) parallel.Job[fetched] {
	source := s.Store(target.side)

	return func(ctx context.Context) (fetched, error) {
		var snapshots []resource.Snapshot

		err := netretry.Do(ctx, s.cfg.RetryTimeout, s.cfg.RetryInterval, func(ctx context.Context) error {
			var listErr error

			snapshots, listErr = source.ListResources(ctx, target.kind, target.namespace)
			if listErr != nil && netretry.IsRetryable(listErr) {
				s.logger.WithError(listErr).WithField("store", source.Name()).Debug("retrying fetch")
			}

			return listErr //nolint:wrapcheck // stores return TransportError
		})
		if err != nil {
			return fetched{}, err //nolint:wrapcheck // stores return TransportError
		}

		s.logger.WithFields(logrus.Fields{
			"store":     source.Name(),
			"kind":      target.kind,
			"namespace": target.namespace,
			"count":     len(snapshots),
		}).Debug("fetched resources")

		return fetched{side: target.side, snapshots: snapshots}, nil
	}
}

// Results returns copies of the active results ordered by identity.
func (s *Session) Results() []compare.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return compare.DeepCopyAll(s.results)
}

// Result returns a copy of the active result for identity.
func (s *Session) Result(identity resource.Identity) (compare.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return compare.Result{}, ErrClosed
	}

	for _, result := range s.results {
		if result.Identity == identity {
			return result.DeepCopy(), nil
		}
	}

	return compare.Result{}, fmt.Errorf("%w: %s", ErrUnknownResult, identity)
}

// Selection returns the current selection.
func (s *Session) Selection() diffview.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection
}

// Close tears the session down. Further operations return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.results = nil
	s.models = nil
	s.selection = diffview.Selection{}
	s.cache.Purge()

	s.logger.Debug("session closed")

	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
