package mockapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/go-chi/chi/v5"
)

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	s.mu.Lock()
	rec := s.st.userByEmail(creds.Email)
	s.mu.Unlock()

	if rec == nil || !checkPassword(creds.Password, rec.passwordHash) {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if !rec.IsActive {
		writeDetail(w, http.StatusBadRequest, "Inactive user")
		return
	}
	tok, err := s.issueToken(rec.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.AccessToken{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r.Context()))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := s.st.sortedUsers()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	u, err := s.SeedUser(in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	stage := domain.Stage(r.URL.Query().Get("stage"))

	s.mu.Lock()
	all := s.st.sortedDeals()
	s.mu.Unlock()

	deals := make([]domain.Deal, 0, len(all))
	for _, d := range all {
		if stage == "" || d.Stage == stage {
			deals = append(deals, d)
		}
	}
	writeJSON(w, http.StatusOK, deals)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	s.mu.Lock()
	d, found := s.st.deals[id]
	var out domain.Deal
	if found {
		out = *d
	}
	s.mu.Unlock()

	if !found {
		writeDetail(w, http.StatusNotFound, "Deal not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	in := domain.NewDealInput()
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	owner := currentUser(r.Context())

	s.mu.Lock()
	now := s.now()
	d := &domain.Deal{
		ID:         s.st.id(),
		Name:       in.Name,
		CompanyURL: in.CompanyURL,
		OwnerID:    owner.ID,
		Stage:      in.Stage,
		Round:      in.Round,
		CheckSize:  in.CheckSize,
		Status:     in.Status,
		CreatedAt:  now,
	}
	s.st.deals[d.ID] = d
	s.st.addActivity(d.ID, owner.ID, domain.ActivityStageChange,
		fmt.Sprintf("Deal created in %s stage", d.Stage), now)
	out := *d
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	var in domain.DealInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user := currentUser(r.Context())

	s.mu.Lock()
	d, found := s.st.deals[id]
	if !found {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Deal not found")
		return
	}
	now := s.now()
	from := d.Stage
	d.Name = in.Name
	d.CompanyURL = in.CompanyURL
	d.Stage = in.Stage
	d.Round = in.Round
	d.CheckSize = in.CheckSize
	d.Status = in.Status
	d.UpdatedAt = &now
	if from != d.Stage {
		s.st.addActivity(id, user.ID, domain.ActivityStageChange, stageChangeDescription(from, d.Stage), now)
	}
	out := *d
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.st.deals[id]
	if found {
		s.st.deleteDeal(id)
	}
	s.mu.Unlock()

	if !found {
		writeDetail(w, http.StatusNotFound, "Deal not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	s.mu.Lock()
	acts := s.st.activitiesFor(id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, acts)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	var in domain.CommentCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	user := currentUser(r.Context())

	s.mu.Lock()
	if _, found := s.st.deals[in.DealID]; !found {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Deal not found")
		return
	}
	a := s.st.addActivity(in.DealID, user.ID, domain.ActivityComment, in.Comment, s.now())
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	user := currentUser(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.st.deals[id]; !found {
		writeDetail(w, http.StatusNotFound, "Deal not found")
		return
	}
	key := voteKey{dealID: id, userID: user.ID}
	if _, voted := s.st.votes[key]; voted {
		writeDetail(w, http.StatusBadRequest, "You have already voted on this deal")
		return
	}
	now := s.now()
	v := domain.Vote{ID: s.st.id(), DealID: id, UserID: user.ID, CreatedAt: now}
	s.st.votes[key] = v
	s.st.addActivity(id, user.ID, domain.ActivityVote, "Voted on this deal", now)
	writeJSON(w, http.StatusCreated, v)
}

// handleGetVote answers 404 when the caller has not voted.
func (s *Server) handleGetVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	user := currentUser(r.Context())

	s.mu.Lock()
	v, voted := s.st.votes[voteKey{dealID: id, userID: user.ID}]
	s.mu.Unlock()

	if !voted {
		writeDetail(w, http.StatusNotFound, "No vote cast")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDecision(status domain.DealStatus) http.HandlerFunc {
	kind, desc := domain.ActivityApproval, "Approved this deal"
	if status == domain.DealDeclined {
		kind, desc = domain.ActivityDecline, "Declined this deal"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "dealID")
		if !ok {
			return
		}
		user := currentUser(r.Context())

		s.mu.Lock()
		d, found := s.st.deals[id]
		if !found {
			s.mu.Unlock()
			writeDetail(w, http.StatusNotFound, "Deal not found")
			return
		}
		now := s.now()
		d.Status = status
		d.UpdatedAt = &now
		s.st.addActivity(id, user.ID, kind, desc, now)
		out := *d
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleGetMemoByDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "dealID")
	if !ok {
		return
	}
	s.mu.Lock()
	m := s.st.memoForDeal(id)
	var out domain.Memo
	if m != nil {
		out = *m
	}
	s.mu.Unlock()

	if m == nil {
		writeDetail(w, http.StatusNotFound, "Memo not found for this deal")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "memoID")
	if !ok {
		return
	}
	s.mu.Lock()
	versions := s.st.versionsFor(id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var in domain.MemoCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	user := currentUser(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.st.deals[in.DealID]; !found {
		writeDetail(w, http.StatusNotFound, "Deal not found")
		return
	}
	if s.st.memoForDeal(in.DealID) != nil {
		writeDetail(w, http.StatusBadRequest, "Memo already exists for this deal")
		return
	}
	now := s.now()
	m := &domain.Memo{
		ID:           s.st.id(),
		DealID:       in.DealID,
		CreatedByID:  user.ID,
		CreatedAt:    now,
		MemoSections: in.MemoSections,
	}
	s.st.memos[m.ID] = m
	s.st.snapshot(m, user.ID, now)
	writeJSON(w, http.StatusCreated, *m)
}

func (s *Server) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "memoID")
	if !ok {
		return
	}
	var in domain.MemoSections
	if !decodeJSON(w, r, &in) {
		return
	}
	user := currentUser(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	m, found := s.st.memos[id]
	if !found {
		writeDetail(w, http.StatusNotFound, "Memo not found")
		return
	}
	now := s.now()
	m.MemoSections = in
	m.UpdatedAt = &now
	v := s.st.snapshot(m, user.ID, now)
	s.st.addActivity(m.DealID, user.ID, domain.ActivityMemoUpdated,
		fmt.Sprintf("Memo updated (version %d)", v.VersionNumber), now)
	writeJSON(w, http.StatusOK, *m)
}
