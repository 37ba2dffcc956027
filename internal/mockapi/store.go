package mockapi

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
)

type userRecord struct {
	domain.User
	passwordHash string
}

type voteKey struct {
	dealID, userID int64
}

// store is the server's in-memory state. Callers hold Server.mu.
type store struct {
	nextID     int64
	users      map[int64]*userRecord
	deals      map[int64]*domain.Deal
	activities []domain.Activity
	memos      map[int64]*domain.Memo // keyed by memo ID
	versions   []domain.MemoVersion
	votes      map[voteKey]domain.Vote
}

func newStore() *store {
	return &store{
		users: make(map[int64]*userRecord),
		deals: make(map[int64]*domain.Deal),
		memos: make(map[int64]*domain.Memo),
		votes: make(map[voteKey]domain.Vote),
	}
}

func (st *store) id() int64 {
	st.nextID++
	return st.nextID
}

func (st *store) userByEmail(email string) *userRecord {
	for _, u := range st.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (st *store) sortedUsers() []domain.User {
	out := make([]domain.User, 0, len(st.users))
	for _, u := range st.users {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (st *store) sortedDeals() []domain.Deal {
	out := make([]domain.Deal, 0, len(st.deals))
	for _, d := range st.deals {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (st *store) addActivity(dealID, userID int64, kind domain.ActivityType, desc string, at time.Time) domain.Activity {
	a := domain.Activity{
		ID:           st.id(),
		DealID:       dealID,
		UserID:       userID,
		ActivityType: kind,
		Description:  desc,
		CreatedAt:    at,
	}
	st.activities = append(st.activities, a)
	return a
}

// activitiesFor returns a deal's log newest first.
func (st *store) activitiesFor(dealID int64) []domain.Activity {
	var out []domain.Activity
	for i := len(st.activities) - 1; i >= 0; i-- {
		if st.activities[i].DealID == dealID {
			out = append(out, st.activities[i])
		}
	}
	if out == nil {
		out = []domain.Activity{}
	}
	return out
}

func (st *store) memoForDeal(dealID int64) *domain.Memo {
	for _, m := range st.memos {
		if m.DealID == dealID {
			return m
		}
	}
	return nil
}

func (st *store) versionsFor(memoID int64) []domain.MemoVersion {
	out := []domain.MemoVersion{}
	for _, v := range st.versions {
		if v.MemoID == memoID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out
}

// snapshot appends the memo's current body as the next version.
func (st *store) snapshot(m *domain.Memo, userID int64, at time.Time) domain.MemoVersion {
	next := 1
	for _, v := range st.versions {
		if v.MemoID == m.ID && v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}
	v := domain.MemoVersion{
		ID:            st.id(),
		MemoID:        m.ID,
		VersionNumber: next,
		CreatedByID:   userID,
		CreatedAt:     at,
		MemoSections:  m.MemoSections,
	}
	st.versions = append(st.versions, v)
	return v
}

func (st *store) deleteDeal(id int64) {
	delete(st.deals, id)
	kept := st.activities[:0]
	for _, a := range st.activities {
		if a.DealID != id {
			kept = append(kept, a)
		}
	}
	st.activities = kept
	for k := range st.votes {
		if k.dealID == id {
			delete(st.votes, k)
		}
	}
	if m := st.memoForDeal(id); m != nil {
		delete(st.memos, m.ID)
		versions := st.versions[:0]
		for _, v := range st.versions {
			if v.MemoID != m.ID {
				versions = append(versions, v)
			}
		}
		st.versions = versions
	}
}

func stageChangeDescription(from, to domain.Stage) string {
	return fmt.Sprintf("Moved from %s to %s", from, to)
}
