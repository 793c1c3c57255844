package provision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clerk/internal/store"
	"github.com/nhle/clerk/tests/testutil"
)

func TestRepairPatchesAccountsMissingFlags(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewProfile(t, "alice.smith@example.com", "pw")
	profilePath := store.JoinPath(testutil.ProfilesPath, "alice.smith")

	// One importer-style account at depth 1 with no retention flags at all,
	// one at depth 2 recognised by its server value.
	shallow, err := s.OpenOrCreate(store.JoinPath(profilePath, "{ACCOUNT}"))
	require.NoError(t, err)
	require.NoError(t, shallow.SetString(ValAccountName, "alice.smith@example.com"))
	shallow.Close()

	deep, err := s.OpenOrCreate(store.JoinPath(profilePath, MailAccountSection, "00000003"))
	require.NoError(t, err)
	require.NoError(t, deep.SetString(ValPOP3Server, "mail.kurumsaleposta.com"))
	require.NoError(t, deep.SetDWord(ValRemoveWhenDeleted, 0))
	deep.Close()

	res, err := Repair(s, testutil.ProfilesPath, p, nil)
	require.NoError(t, err)
	assert.Equal(t, RepairByPatch, res.Outcome)
	assert.Len(t, res.Patched, 2)

	for _, path := range res.Patched {
		got := testutil.Snapshot(t, s, path)
		assert.Equal(t, uint32(0), got[ValLeaveOnServer], path)
		assert.Equal(t, uint32(1), got[ValRemoveWhenDeleted], path)
		assert.Equal(t, uint32(1), got[ValRemoveWhenExpired], path)
	}
}

func TestRepairRecognisesTaggedNodes(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewProfile(t, "alice.smith@example.com", "pw")

	n, err := s.OpenOrCreate(store.JoinPath(testutil.ProfilesPath, "alice.smith", "{TAGGED}"))
	require.NoError(t, err)
	require.NoError(t, n.SetDWord(ValManagedTag, 1))
	n.Close()

	res, err := Repair(s, testutil.ProfilesPath, p, nil)
	require.NoError(t, err)
	assert.Equal(t, RepairByPatch, res.Outcome)
	assert.Equal(t, []string{store.JoinPath(testutil.ProfilesPath, "alice.smith", "{TAGGED}")}, res.Patched)
}

func TestRepairIgnoresAccountsBeyondSearchDepth(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewProfile(t, "alice.smith@example.com", "pw")
	profilePath := store.JoinPath(testutil.ProfilesPath, "alice.smith")

	n, err := s.OpenOrCreate(store.JoinPath(profilePath, "a", "b", "c"))
	require.NoError(t, err)
	require.NoError(t, n.SetString(ValPOP3Server, "x"))
	n.Close()

	res, err := Repair(s, testutil.ProfilesPath, p, nil)
	require.NoError(t, err)
	assert.Equal(t, RepairByFullCreate, res.Outcome)
	assert.False(t, s.Exists(store.JoinPath(profilePath, "a")))
}

func TestRepairMissingProfileCreatesWellKnownLayout(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewProfile(t, "alice.smith@example.com", "pw")

	res, err := Repair(s, testutil.ProfilesPath, p, nil)
	require.NoError(t, err)
	assert.Equal(t, RepairByFullCreate, res.Outcome)
	assert.Empty(t, res.Patched)

	acct := store.JoinPath(testutil.ProfilesPath, "alice.smith", MailAccountSection, FirstAccountIndex)
	assert.Equal(t, expectedAccount("alice.smith@example.com", "alice.smith"), testutil.Snapshot(t, s, acct))
}

func TestRepairOpenFailure(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewProfile(t, "alice.smith@example.com", "pw")
	profilePath := store.JoinPath(testutil.ProfilesPath, "alice.smith")

	_, err := s.OpenOrCreate(profilePath)
	require.NoError(t, err)
	s.FailOn("open", profilePath, errors.New("access denied"))

	_, err = Repair(s, testutil.ProfilesPath, p, nil)
	require.Error(t, err)
	assert.True(t, store.IsStorageAccessError(err))
}

func TestRepairOutcomeString(t *testing.T) {
	assert.Equal(t, "patch", RepairByPatch.String())
	assert.Equal(t, "full-create", RepairByFullCreate.String())
	assert.Equal(t, "unknown", RepairOutcome(0).String())
}

func TestWaitForAccountTimesOutWithoutError(t *testing.T) {
	s := testutil.NewTestStore(t)
	path := store.JoinPath(testutil.ProfilesPath, "nobody")

	start := time.Now()
	seen, err := WaitForAccount(context.Background(), s, path, 5*time.Millisecond, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, seen)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitForAccountSeesExisting(t *testing.T) {
	s := testutil.NewTestStore(t)
	n, err := s.OpenOrCreate(store.JoinPath(testutil.ProfilesPath, "alice", "{A}"))
	require.NoError(t, err)
	require.NoError(t, n.SetString(ValAccountName, "alice@example.com"))
	n.Close()

	seen, err := WaitForAccount(context.Background(), s, store.JoinPath(testutil.ProfilesPath, "alice"), time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestWaitForAccountCancelled(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitForAccount(ctx, s, store.JoinPath(testutil.ProfilesPath, "x"), time.Millisecond, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForAccountCallerDeadlineIsError(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	seen, err := WaitForAccount(ctx, s, store.JoinPath(testutil.ProfilesPath, "x"), time.Millisecond, 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, seen)
}
