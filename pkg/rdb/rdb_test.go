package rdb

import (
	"path/filepath"
	"testing"

	"github.com/mousechain/mouse/pkg/acidtype"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rdb.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func idOf(b byte) Id {
	var id Id
	id[0] = b
	return id
}

func TestMainChainPushFetchPop(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	for i := uint64(1); i <= 3; i++ {
		if err := m.PushMainChain(ChainIndex{Height: i, Id: idOf(byte(i))}); err != nil {
			t.Fatalf("PushMainChain(%d) = %v", i, err)
		}
	}

	if err := m.PushMainChain(ChainIndex{Height: 2, Id: idOf(9)}); err == nil {
		t.Fatal("expected duplicate height to fail")
	}

	got, err := m.FetchMainChain([]uint64{1, 2, 3, 99})
	if err != nil {
		t.Fatalf("FetchMainChain() = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("FetchMainChain() returned %d entries, want 3", len(got))
	}
	if got[2] != idOf(2) {
		t.Fatalf("FetchMainChain()[2] = %v, want %v", got[2], idOf(2))
	}

	if err := m.PopMainChain(); err != nil {
		t.Fatalf("PopMainChain() = %v", err)
	}
	if _, ok, _ := m.FetchMainChainOne(3); ok {
		t.Fatal("expected height 3 to be gone after PopMainChain")
	}
	if _, ok, _ := m.FetchMainChainOne(2); !ok {
		t.Fatal("expected height 2 to still be present")
	}
}

func TestMainChainAscDesc(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	for i := uint64(1); i <= 5; i++ {
		if err := m.PushMainChain(ChainIndex{Height: i, Id: idOf(byte(i))}); err != nil {
			t.Fatalf("PushMainChain(%d) = %v", i, err)
		}
	}

	asc, err := m.FetchMainChainAsc(2, 2)
	if err != nil {
		t.Fatalf("FetchMainChainAsc() = %v", err)
	}
	if len(asc) != 2 || asc[0].Height != 2 || asc[1].Height != 3 {
		t.Fatalf("FetchMainChainAsc(2, 2) = %+v, want heights [2 3]", asc)
	}

	desc, err := m.FetchMainChainDesc(4, 2)
	if err != nil {
		t.Fatalf("FetchMainChainDesc() = %v", err)
	}
	if len(desc) != 2 || desc[0].Height != 4 || desc[1].Height != 3 {
		t.Fatalf("FetchMainChainDesc(4, 2) = %+v, want heights [4 3]", desc)
	}
}

func TestChainPromotionScenario(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	id1, id2 := idOf(1), idOf(2)
	x := idOf(0xAA)

	if err := m.AcceptToMempool([]Id{id1, id2}); err != nil {
		t.Fatalf("AcceptToMempool() = %v", err)
	}
	if err := m.PushMainChain(ChainIndex{Height: 1, Id: x}); err != nil {
		t.Fatalf("PushMainChain() = %v", err)
	}
	n, err := m.MempoolToChain(ChainIndex{Height: 1, Id: x}, []Id{id1})
	if err != nil {
		t.Fatalf("MempoolToChain() = %v", err)
	}
	if n != 1 {
		t.Fatalf("MempoolToChain() changed %d rows, want 1", n)
	}

	state, err := m.FetchAcidState([]Id{id1, id2})
	if err != nil {
		t.Fatalf("FetchAcidState() = %v", err)
	}
	if state[id1] == nil || state[id1].Height != 1 || state[id1].Id != x {
		t.Fatalf("state[id1] = %+v, want {1 %v}", state[id1], x)
	}
	if ci, ok := state[id2]; !ok || ci != nil {
		t.Fatalf("state[id2] = %+v, want present and nil (mempool)", ci)
	}

	changed, err := m.ChainToMempool(ChainIndex{Height: 1, Id: x})
	if err != nil {
		t.Fatalf("ChainToMempool() = %v", err)
	}
	if changed != 1 {
		t.Fatalf("ChainToMempool() changed %d rows, want 1", changed)
	}

	state, err = m.FetchAcidState([]Id{id1})
	if err != nil {
		t.Fatalf("FetchAcidState() = %v", err)
	}
	if ci, ok := state[id1]; !ok || ci != nil {
		t.Fatalf("state[id1] after ChainToMempool = %+v, want nil (back in mempool)", ci)
	}
}

func TestFetchAcidRelationsPairsIdWithContainingChainIndex(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	id1, id2 := idOf(1), idOf(2)
	x := idOf(0xAA)

	if err := m.AcceptToMempool([]Id{id1, id2}); err != nil {
		t.Fatalf("AcceptToMempool() = %v", err)
	}
	if err := m.PushMainChain(ChainIndex{Height: 1, Id: x}); err != nil {
		t.Fatalf("PushMainChain() = %v", err)
	}
	if _, err := m.MempoolToChain(ChainIndex{Height: 1, Id: x}, []Id{id1}); err != nil {
		t.Fatalf("MempoolToChain() = %v", err)
	}

	relations, err := m.FetchAcidRelations([]Id{id1, id2, idOf(0xFF)})
	if err != nil {
		t.Fatalf("FetchAcidRelations() = %v", err)
	}
	if len(relations) != 2 {
		t.Fatalf("FetchAcidRelations() returned %d relations, want 2 (unknown id skipped)", len(relations))
	}

	byID := make(map[Id]acidtype.ChainRelation, len(relations))
	for _, r := range relations {
		byID[r.Id] = r
	}

	chained, ok := byID[id1]
	if !ok || chained.ChainIndex == nil || chained.ChainIndex.Height != 1 || chained.ChainIndex.Id != x {
		t.Fatalf("relation for id1 = %+v, want chained at height 1 block %v", chained, x)
	}
	mempool, ok := byID[id2]
	if !ok || mempool.ChainIndex != nil {
		t.Fatalf("relation for id2 = %+v, want present with nil ChainIndex (mempool)", mempool)
	}
}

func TestAcceptToMempoolIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	id1 := idOf(1)
	if err := m.AcceptToMempool([]Id{id1}); err != nil {
		t.Fatalf("AcceptToMempool() = %v", err)
	}
	if err := m.AcceptToMempool([]Id{id1}); err != nil {
		t.Fatalf("AcceptToMempool() duplicate call = %v, want nil (silently ignored)", err)
	}

	page, err := m.FetchMempool(0, 10)
	if err != nil {
		t.Fatalf("FetchMempool() = %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("FetchMempool() returned %d entries, want 1 (duplicate not re-inserted)", len(page))
	}
}

func TestBalanceInvariantScenario(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	r, err := acidtype.NewResourceId([]byte("owner"), []byte("coin"))
	if err != nil {
		t.Fatalf("NewResourceId() = %v", err)
	}
	r2, err := acidtype.NewResourceId([]byte("owner2"), []byte("coin"))
	if err != nil {
		t.Fatalf("NewResourceId() = %v", err)
	}

	if err := m.UpdateBalance([]ResourceDelta{{Id: r, Delta: 5}}); err != nil {
		t.Fatalf("UpdateBalance(+5) = %v", err)
	}
	bal, err := m.FetchResources([]ResourceId{r})
	if err != nil {
		t.Fatalf("FetchResources() = %v", err)
	}
	if bal[r] != 5 {
		t.Fatalf("balance = %d, want 5", bal[r])
	}

	if err := m.UpdateBalance([]ResourceDelta{{Id: r, Delta: -5}}); err != nil {
		t.Fatalf("UpdateBalance(-5) = %v", err)
	}
	bal, err = m.FetchResources([]ResourceId{r})
	if err != nil {
		t.Fatalf("FetchResources() = %v", err)
	}
	if _, ok := bal[r]; ok {
		t.Fatalf("expected the zeroed row to be deleted, got %v", bal[r])
	}

	if err := m.UpdateBalance([]ResourceDelta{{Id: r, Delta: -1}}); err == nil {
		t.Fatal("expected UpdateBalance(-1) on a deleted row to fail")
	}
	if err := m.UpdateBalance([]ResourceDelta{{Id: r2, Delta: -1}}); err == nil {
		t.Fatal("expected UpdateBalance(-1) on a never-seen row to fail")
	}
}

func TestSessionAcquisitionBlocksUntilReleased(t *testing.T) {
	s := openTestStore(t)

	m := s.NewMaster()

	released := make(chan struct{})
	acquired := make(chan struct{})
	go func() {
		slave := s.NewSlave()
		close(acquired)
		<-released
		slave.Close()
	}()

	select {
	case <-acquired:
		t.Fatal("second session acquired before the first was released")
	default:
	}

	m.Close()
	<-acquired
	close(released)
}

func TestReentrantSessionFromSameGoroutinePanics(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected NewSlave from the same goroutine to panic")
		}
	}()
	_ = s.NewSlave()
}

func TestExplicitTransactionCommitAndRollback(t *testing.T) {
	s := openTestStore(t)
	m := s.NewMaster()
	defer m.Close()

	if err := m.BeginTransaction(); err != nil {
		t.Fatalf("BeginTransaction() = %v", err)
	}
	if !m.IsTransaction() {
		t.Fatal("IsTransaction() = false, want true after BeginTransaction")
	}
	if err := m.PushMainChain(ChainIndex{Height: 1, Id: idOf(1)}); err != nil {
		t.Fatalf("PushMainChain() inside transaction = %v", err)
	}
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback() = %v", err)
	}
	if m.IsTransaction() {
		t.Fatal("IsTransaction() = true after Rollback, want false")
	}
	if _, ok, _ := m.FetchMainChainOne(1); ok {
		t.Fatal("expected the rolled-back push to not be visible")
	}

	if err := m.BeginTransaction(); err != nil {
		t.Fatalf("BeginTransaction() = %v", err)
	}
	if err := m.PushMainChain(ChainIndex{Height: 1, Id: idOf(1)}); err != nil {
		t.Fatalf("PushMainChain() inside transaction = %v", err)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit() = %v", err)
	}
	if _, ok, _ := m.FetchMainChainOne(1); !ok {
		t.Fatal("expected the committed push to be visible")
	}
}
