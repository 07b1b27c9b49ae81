package recommend

import (
	"testing"

	"github.com/railvoy/railvoy/internal/domain/search/result"
	"github.com/railvoy/railvoy/internal/domain/search/sortorder"
)

func scoredFixture() []result.Scored {
	return []result.Scored{
		result.New(makeItem(itemSpec{id: "p-3", name: "Coastal Escape", nights: 10, rank: 200, price: 150000, createdAt: 300}), 80, 0, nil),
		result.New(makeItem(itemSpec{id: "p-1", name: "alpine Adventure", nights: 7, rank: 50, price: 250000, createdAt: 100}), 80, 0, nil),
		result.New(makeItem(itemSpec{id: "p-2", name: "Balkan Circuit", nights: 14, rank: 0, price: 0, createdAt: 200}), 90, 0, nil),
	}
}

func ids(scored []result.Scored) []string {
	out := make([]string, 0, len(scored))
	for i := range scored {
		out = append(out, scored[i].Item().ID())
	}
	return out
}

func assertOrder(t *testing.T, scored []result.Scored, want ...string) {
	t.Helper()
	got := ids(scored)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSortScoreDescendingWithRankTiebreak(t *testing.T) {
	scored := scoredFixture()
	sortResults(scored, sortorder.Score)
	// p-2 wins on score, then the two 80s order by rank, 50 before 200.
	assertOrder(t, scored, "p-2", "p-1", "p-3")
}

func TestSortScoreUnrankedLosesTiebreak(t *testing.T) {
	scored := []result.Scored{
		result.New(makeItem(itemSpec{id: "p-1", name: "A", rank: 0}), 50, 0, nil),
		result.New(makeItem(itemSpec{id: "p-2", name: "B", rank: 900}), 50, 0, nil),
	}
	sortResults(scored, sortorder.Score)
	assertOrder(t, scored, "p-2", "p-1")
}

func TestSortIdenticalItemsOrderByID(t *testing.T) {
	scored := []result.Scored{
		result.New(makeItem(itemSpec{id: "p-9", name: "Same", rank: 10}), 50, 0, nil),
		result.New(makeItem(itemSpec{id: "p-1", name: "Same", rank: 10}), 50, 0, nil),
		result.New(makeItem(itemSpec{id: "p-5", name: "Same", rank: 10}), 50, 0, nil),
	}
	sortResults(scored, sortorder.Score)
	assertOrder(t, scored, "p-1", "p-5", "p-9")
}

func TestSortByPopularity(t *testing.T) {
	scored := scoredFixture()
	sortResults(scored, sortorder.Popularity)
	assertOrder(t, scored, "p-1", "p-3", "p-2")
}

func TestSortByDuration(t *testing.T) {
	scored := scoredFixture()
	sortResults(scored, sortorder.DurationAsc)
	assertOrder(t, scored, "p-1", "p-3", "p-2")

	sortResults(scored, sortorder.DurationDesc)
	assertOrder(t, scored, "p-2", "p-3", "p-1")
}

func TestSortByNameCaseInsensitive(t *testing.T) {
	scored := scoredFixture()
	sortResults(scored, sortorder.NameAsc)
	assertOrder(t, scored, "p-1", "p-2", "p-3")

	sortResults(scored, sortorder.NameDesc)
	assertOrder(t, scored, "p-3", "p-2", "p-1")
}

func TestSortByNewest(t *testing.T) {
	scored := scoredFixture()
	sortResults(scored, sortorder.Newest)
	assertOrder(t, scored, "p-3", "p-2", "p-1")
}

func TestSortByPriceUnpricedLast(t *testing.T) {
	scored := scoredFixture()
	sortResults(scored, sortorder.PriceAsc)
	assertOrder(t, scored, "p-3", "p-1", "p-2")

	sortResults(scored, sortorder.PriceDesc)
	assertOrder(t, scored, "p-1", "p-3", "p-2")
}

func TestSortIsDeterministicAcrossRuns(t *testing.T) {
	first := scoredFixture()
	sortResults(first, sortorder.Score)
	for i := 0; i < 10; i++ {
		again := scoredFixture()
		sortResults(again, sortorder.Score)
		assertOrder(t, again, ids(first)...)
	}
}
