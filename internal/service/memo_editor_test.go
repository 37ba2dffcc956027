package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveDraft(t *testing.T, e *MemoEditor, summary string) {
	t.Helper()
	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetSection(domain.SectionSummary, summary))
	require.NoError(t, e.Save(context.Background()))
}

func TestMemoEditor_LoadWithoutMemo(t *testing.T) {
	f := newFixture(t, domain.RoleAnalyst)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)

	require.NoError(t, e.Load(context.Background(), d.ID))
	disp := e.Display()
	assert.False(t, disp.HasMemo)
	assert.Equal(t, ViewingCurrent, disp.Mode)
	assert.True(t, disp.Sections.IsEmpty())
	assert.Empty(t, e.Versions())
}

func TestMemoEditor_TwoSavesYieldIncreasingVersions(t *testing.T) {
	f := newFixture(t, domain.RoleAnalyst)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))

	saveDraft(t, e, "first take")
	assert.Equal(t, ViewingCurrent, e.Mode(), "save returns to viewing-current")
	require.Len(t, e.Versions(), 1)
	first := e.Versions()[0].VersionNumber

	saveDraft(t, e, "second take")
	versions := e.Versions()
	require.Len(t, versions, 2)
	assert.Equal(t, first+1, versions[0].VersionNumber, "each save increments the prior")
	assert.Equal(t, first, versions[1].VersionNumber, "numbers never reused")
	assert.Equal(t, "second take", e.Display().Sections.Summary)
}

func TestMemoEditor_HistoricalThenCurrentRestoresFetchedMemo(t *testing.T) {
	f := newFixture(t, domain.RoleAdmin)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))
	saveDraft(t, e, "old summary")
	saveDraft(t, e, "new summary")
	current := e.Memo().Sections()

	oldest := e.Versions()[1]
	require.NoError(t, e.SelectVersion(oldest.ID))
	disp := e.Display()
	assert.Equal(t, ViewingHistorical, disp.Mode)
	assert.True(t, disp.ReadOnly)
	assert.Equal(t, oldest.VersionNumber, disp.VersionNumber)
	assert.Equal(t, "old summary", disp.Sections.Summary)

	e.SelectCurrent()
	disp = e.Display()
	assert.Equal(t, ViewingCurrent, disp.Mode)
	assert.Equal(t, current, disp.Sections, "exactly the last-fetched current memo")
	assert.Zero(t, disp.VersionNumber)
}

func TestMemoEditor_SelectVersionExitsEditMode(t *testing.T) {
	f := newFixture(t, domain.RoleAnalyst)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))
	saveDraft(t, e, "saved")

	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetSection(domain.SectionRisks, "unsaved edit"))
	require.NoError(t, e.SelectVersion(e.Versions()[0].ID))

	assert.Equal(t, ViewingHistorical, e.Mode())
	assert.ErrorIs(t, e.SetSection(domain.SectionRisks, "x"), ErrNotEditing)
	assert.ErrorIs(t, e.BeginEdit(), ErrReadOnly, "no editing from a historical version")

	e.SelectCurrent()
	assert.Empty(t, e.Display().Sections.Risks, "unsaved edit discarded")
}

func TestMemoEditor_CancelRestoresFetchedMemo(t *testing.T) {
	f := newFixture(t, domain.RoleAnalyst)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))
	saveDraft(t, e, "kept")

	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetSection(domain.SectionSummary, "scratch"))
	assert.Equal(t, "scratch", e.Display().Sections.Summary)

	e.Cancel()
	assert.Equal(t, ViewingCurrent, e.Mode())
	assert.Equal(t, "kept", e.Display().Sections.Summary)
	assert.Equal(t, "kept", e.Draft().Summary)
}

func TestMemoEditor_PartnerIsReadOnly(t *testing.T) {
	f := newFixture(t, domain.RolePartner)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))

	assert.ErrorIs(t, e.BeginEdit(), ErrPermissionDenied)
	assert.True(t, e.Display().ReadOnly)
	assert.False(t, e.CanEdit())
}

func TestMemoEditor_SaveFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, domain.RoleAnalyst)
	d := f.seedDeal("Acme")
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))

	f.env.Server.FailNext("POST", "/memos", http.StatusInternalServerError)
	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetSection(domain.SectionMarket, "big"))
	require.Error(t, e.Save(context.Background()))

	assert.Equal(t, EditingCurrent, e.Mode())
	assert.Equal(t, "big", e.Draft().Market)
	assert.Nil(t, e.Memo())
}

func TestMemoEditor_GuardsWithoutLoad(t *testing.T) {
	e := NewMemoEditor(nil, sessionAs(domain.RoleAnalyst))
	assert.ErrorIs(t, e.BeginEdit(), ErrDealNotLoaded)
	assert.ErrorIs(t, e.Save(context.Background()), ErrNotEditing)
	assert.ErrorIs(t, e.SelectVersion(3), ErrUnknownVersion)
}

func TestMemoEditor_HistoryNewestFirst(t *testing.T) {
	f := newFixture(t, domain.RoleAnalyst)
	d := f.seedDeal("Acme", testutil.WithStage(domain.StageDiligence))
	e := NewMemoEditor(f.client, f.session)
	require.NoError(t, e.Load(context.Background(), d.ID))
	for _, s := range []string{"a", "b", "c"} {
		saveDraft(t, e, s)
	}

	versions := e.Versions()
	require.Len(t, versions, 3)
	for i := 1; i < len(versions); i++ {
		assert.Greater(t, versions[i-1].VersionNumber, versions[i].VersionNumber)
	}
}
