package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/log"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// fakeStore is an in-memory UnitOfWork with fault injection hooks.
type fakeStore struct {
	mu        sync.Mutex
	seq       int
	locations []*types.Location
	settings  map[string]*types.Setting
	tipTypes  []*types.TipType
	tips      []*types.Tip
	profiles  []*types.CameraProfile

	creates       atomic.Int64
	markerCreates atomic.Int64

	// beforeCreate runs before every create or upsert with the entity kind
	// and its natural key; a non-nil error aborts the write.
	beforeCreate func(kind, key string) error
	getByKeyErr  error
	listErr      error
	// beforeList runs at the start of every location list.
	beforeList func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]*types.Setting)}
}

func (f *fakeStore) Locations() types.LocationRepository           { return fakeLocations{f} }
func (f *fakeStore) Settings() types.SettingRepository             { return fakeSettings{f} }
func (f *fakeStore) TipTypes() types.TipTypeRepository             { return fakeTipTypes{f} }
func (f *fakeStore) Tips() types.TipRepository                     { return fakeTips{f} }
func (f *fakeStore) CameraProfiles() types.CameraProfileRepository { return fakeProfiles{f} }

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// check runs the hook without holding f.mu.
func (f *fakeStore) check(kind, key string) error {
	if f.beforeCreate == nil {
		return nil
	}
	return f.beforeCreate(kind, key)
}

func (f *fakeStore) counts() (tipTypes, tips, locations, settings, profiles int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tipTypes), len(f.tips), len(f.locations), len(f.settings), len(f.profiles)
}

func (f *fakeStore) setting(key string) (*types.Setting, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[key]
	return s, ok
}

type fakeLocations struct{ f *fakeStore }

func (r fakeLocations) Create(_ context.Context, l *types.Location) (*types.Location, error) {
	if err := r.f.check("location", l.Title); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.locations {
		if existing.Title == l.Title {
			return nil, types.ErrDuplicateName
		}
	}
	cp := *l
	cp.LocationID = r.f.nextID("loc")
	cp.CreatedAt = time.Now()
	r.f.locations = append(r.f.locations, &cp)
	r.f.creates.Add(1)
	return &cp, nil
}

func (r fakeLocations) Get(_ context.Context, id string) (*types.Location, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, l := range r.f.locations {
		if l.LocationID == id {
			return l, nil
		}
	}
	return nil, types.ErrNotFound
}

func (r fakeLocations) List(_ context.Context, page types.Page) ([]*types.Location, error) {
	if r.f.beforeList != nil {
		r.f.beforeList()
	}
	if r.f.listErr != nil {
		return nil, r.f.listErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := r.f.locations
	if page.Offset < len(out) {
		out = out[page.Offset:]
	} else {
		out = nil
	}
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return append([]*types.Location(nil), out...), nil
}

func (r fakeLocations) Count(_ context.Context) (int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return len(r.f.locations), nil
}

type fakeSettings struct{ f *fakeStore }

func (r fakeSettings) GetByKey(_ context.Context, key string) (*types.Setting, error) {
	if r.f.getByKeyErr != nil {
		return nil, r.f.getByKeyErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	s, ok := r.f.settings[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	return s, nil
}

func (r fakeSettings) Create(_ context.Context, s *types.Setting) (*types.Setting, error) {
	if err := r.f.check("setting", s.Key); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.settings[s.Key]; ok {
		return nil, types.ErrDuplicateKey
	}
	cp := *s
	cp.SettingID = r.f.nextID("set")
	cp.UpdatedAt = time.Now()
	r.f.settings[s.Key] = &cp
	r.f.creates.Add(1)
	if s.Key == types.MarkerKey {
		r.f.markerCreates.Add(1)
	}
	return &cp, nil
}

func (r fakeSettings) Upsert(_ context.Context, s *types.Setting) (*types.Setting, error) {
	if err := r.f.check("upsert", s.Key); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *s
	if existing, ok := r.f.settings[s.Key]; ok {
		cp.SettingID = existing.SettingID
	} else {
		cp.SettingID = r.f.nextID("set")
	}
	cp.UpdatedAt = time.Now()
	r.f.settings[s.Key] = &cp
	return &cp, nil
}

func (r fakeSettings) List(_ context.Context) ([]*types.Setting, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*types.Setting, 0, len(r.f.settings))
	for _, s := range r.f.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type fakeTipTypes struct{ f *fakeStore }

func (r fakeTipTypes) Create(_ context.Context, tt *types.TipType) (*types.TipType, error) {
	if err := r.f.check("tip_type", tt.Name); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.tipTypes {
		if existing.Name == tt.Name {
			return nil, types.ErrDuplicateName
		}
	}
	cp := *tt
	cp.TipTypeID = r.f.nextID("tt")
	r.f.tipTypes = append(r.f.tipTypes, &cp)
	r.f.creates.Add(1)
	return &cp, nil
}

func (r fakeTipTypes) List(_ context.Context) ([]*types.TipType, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return append([]*types.TipType(nil), r.f.tipTypes...), nil
}

type fakeTips struct{ f *fakeStore }

func (r fakeTips) Create(_ context.Context, t *types.Tip) (*types.Tip, error) {
	if err := r.f.check("tip", t.Title); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *t
	cp.TipID = r.f.nextID("tip")
	r.f.tips = append(r.f.tips, &cp)
	r.f.creates.Add(1)
	return &cp, nil
}

func (r fakeTips) ListByType(_ context.Context, id string) ([]*types.Tip, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*types.Tip
	for _, t := range r.f.tips {
		if t.TipTypeID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r fakeTips) Count(_ context.Context) (int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return len(r.f.tips), nil
}

type fakeProfiles struct{ f *fakeStore }

func (r fakeProfiles) Create(_ context.Context, p *types.CameraProfile) (*types.CameraProfile, error) {
	if err := r.f.check("camera_profile", p.Name); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.profiles {
		if existing.Name == p.Name {
			return nil, types.ErrDuplicateName
		}
	}
	cp := *p
	cp.ProfileID = r.f.nextID("cam")
	r.f.profiles = append(r.f.profiles, &cp)
	r.f.creates.Add(1)
	return &cp, nil
}

func (r fakeProfiles) List(_ context.Context) ([]*types.CameraProfile, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return append([]*types.CameraProfile(nil), r.f.profiles...), nil
}

// logEntry is one captured log call.
type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

// captureLogger records every call for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (c *captureLogger) add(level, msg string, fields []log.Field) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, logEntry{level: level, msg: msg, fields: m})
}

func (c *captureLogger) Debug(msg string, fields ...log.Field) { c.add("debug", msg, fields) }
func (c *captureLogger) Info(msg string, fields ...log.Field)  { c.add("info", msg, fields) }
func (c *captureLogger) Warn(msg string, fields ...log.Field)  { c.add("warn", msg, fields) }
func (c *captureLogger) Error(msg string, fields ...log.Field) { c.add("error", msg, fields) }

// warningsFor returns the warnings whose "record" field equals record.
func (c *captureLogger) warningsFor(record string) []logEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []logEntry
	for _, e := range c.entries {
		if e.level == "warn" && e.fields["record"] == record {
			out = append(out, e)
		}
	}
	return out
}
