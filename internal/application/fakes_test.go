package application

import (
	"context"
	"errors"
	"sync"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-service/internal/domain/repository"
)

var errStoreDown = errors.New("store unavailable")

// memUserRepo is an in-memory UserRepository keyed by id with a unique
// email index.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]entity.UserSnapshot
	byEmail map[string]string

	// hideEmails makes EmailExists miss, as if a concurrent insert won the race.
	hideEmails bool
	failAll    error
	failAdd    error
	adds       int
	updates    int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]entity.UserSnapshot{}, byEmail: map[string]string{}}
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return entity.Restore(s), nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	id, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return entity.Restore(r.byID[id]), nil
}

func (r *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return false, r.failAll
	}
	if r.hideEmails {
		return false, nil
	}
	_, ok := r.byEmail[entity.NormalizeEmail(email)]
	return ok, nil
}

func (r *memUserRepo) Add(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	if r.failAdd != nil {
		return nil, r.failAdd
	}
	if _, ok := r.byEmail[u.Email()]; ok {
		return nil, repo.ErrDuplicateEmail
	}
	r.adds++
	r.byID[u.ID()] = u.Snapshot()
	r.byEmail[u.Email()] = u.ID()
	return entity.Restore(u.Snapshot()), nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	if _, ok := r.byID[u.ID()]; !ok {
		return nil, nil
	}
	r.updates++
	r.byID[u.ID()] = u.Snapshot()
	return entity.Restore(u.Snapshot()), nil
}

func (r *memUserRepo) put(u *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID()] = u.Snapshot()
	r.byEmail[u.Email()] = u.ID()
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
}

func (a *recordingAudit) Record(_ context.Context, ev AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return a.err
}

func (a *recordingAudit) last() AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		return AuditEvent{}
	}
	return a.events[len(a.events)-1]
}

type recordingNotifier struct {
	welcomed []string
	alerted  []string
}

func (n *recordingNotifier) Welcome(_ context.Context, u *entity.User) {
	n.welcomed = append(n.welcomed, u.Email())
}

func (n *recordingNotifier) LoginAlert(_ context.Context, u *entity.User) {
	n.alerted = append(n.alerted, u.Email())
}
