package ranking

// Тесты ранжирования лент (internal/ranking).
//
//  Проверяем:
//  - разбор режимов и окон, значения по умолчанию;
//  - порядок каждого режима и тай-брейк по id;
//  - детерминизм при перемешанном входе;
//  - окно учитывается только в top, границы включительные;
//  - пагинация: страница за пределами данных пуста.

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func item(id string, age time.Duration, net, views int64, upvotedAgo time.Duration) *models.Content {
	return &models.Content{
		ID:                 id,
		Kind:               models.KindPost,
		CreatedAt:          now.Add(-age),
		NetVote:            net,
		Views:              views,
		MostRecentUpvoteAt: now.Add(-upvotedAgo),
	}
}

func ids(items []*models.Content) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func fixture() []*models.Content {
	return []*models.Content{
		item("a", 2*time.Hour, 5, 10, time.Minute),
		item("b", 30*time.Minute, 5, 10, 3*time.Minute),
		item("c", 48*time.Hour, 9, 1, 2*time.Minute),
		item("d", 30*time.Minute, 1, 50, 3*time.Minute),
		item("e", 400*24*time.Hour, 20, 0, time.Hour),
	}
}

func TestParseSortAndWindow(t *testing.T) {
	s, err := ParseSort("", "")
	require.NoError(t, err)
	require.Equal(t, SortNew, s)

	s, err = ParseSort("", SortTop)
	require.NoError(t, err)
	require.Equal(t, SortTop, s)

	s, err = ParseSort(" HOT ", SortNew)
	require.NoError(t, err)
	require.Equal(t, SortHot, s)

	_, err = ParseSort("best", SortNew)
	require.ErrorIs(t, err, ErrInvalidSort)

	w, err := ParseWindow("")
	require.NoError(t, err)
	require.Equal(t, WindowAll, w)

	w, err = ParseWindow("week")
	require.NoError(t, err)
	d, ok := w.Duration()
	require.True(t, ok)
	require.Equal(t, 7*24*time.Hour, d)

	_, err = ParseWindow("decade")
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRank_Orders(t *testing.T) {
	tcs := []struct {
		sort Sort
		want []string
	}{
		// b и d созданы одновременно: id desc.
		{SortNew, []string{"d", "b", "a", "c", "e"}},
		{SortOld, []string{"e", "c", "a", "b", "d"}},
		// a и b: net 5, b новее.
		{SortTop, []string{"e", "c", "b", "a", "d"}},
		// a и b: views 10, b новее.
		{SortHot, []string{"d", "b", "a", "c", "e"}},
		// b и d: один момент голоса, id desc.
		{SortRising, []string{"a", "c", "d", "b", "e"}},
	}

	for _, tc := range tcs {
		t.Run(string(tc.sort), func(t *testing.T) {
			got, err := Rank(fixture(), Query{Sort: tc.sort, Window: WindowAll, Limit: 10, Now: now})
			require.NoError(t, err)
			require.Equal(t, tc.want, ids(got))
		})
	}
}

func TestRank_DeterministicOnShuffledInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for _, s := range []Sort{SortNew, SortOld, SortTop, SortHot, SortRising} {
		base, err := Rank(fixture(), Query{Sort: s, Limit: 10, Now: now})
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			in := fixture()
			rnd.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })

			got, err := Rank(in, Query{Sort: s, Limit: 10, Now: now})
			require.NoError(t, err)
			require.Equal(t, ids(base), ids(got))
		}
	}
}

func TestRank_WindowOnlyForTop(t *testing.T) {
	got, err := Rank(fixture(), Query{Sort: SortTop, Window: WindowToday, Limit: 10, Now: now})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "d"}, ids(got))
	for _, it := range got {
		require.False(t, it.CreatedAt.Before(now.Add(-24*time.Hour)))
	}

	got, err = Rank(fixture(), Query{Sort: SortNew, Window: WindowToday, Limit: 10, Now: now})
	require.NoError(t, err)
	require.Len(t, got, 5)

	got, err = Rank(fixture(), Query{Sort: SortTop, Window: WindowAll, Limit: 10, Now: now})
	require.NoError(t, err)
	require.Len(t, got, 5)
}

func TestPlan_WindowBoundsInclusive(t *testing.T) {
	p, err := PlanFor(Query{Sort: SortTop, Window: WindowNow, Limit: 5, Page: 2, Now: now})
	require.NoError(t, err)
	require.Equal(t, 10, p.Skip)
	require.Equal(t, 5, p.Limit)
	require.NotNil(t, p.Since)
	require.NotNil(t, p.Until)

	require.True(t, p.InWindow(now.Add(-time.Hour)))
	require.True(t, p.InWindow(now))
	require.False(t, p.InWindow(now.Add(-time.Hour-time.Nanosecond)))
	require.False(t, p.InWindow(now.Add(time.Nanosecond)))

	p, err = PlanFor(Query{Sort: SortHot, Window: WindowNow, Limit: 5, Now: now})
	require.NoError(t, err)
	require.Nil(t, p.Since)
	require.Equal(t, []Key{{FieldViews, true}, {FieldCreatedAt, true}, {FieldID, true}}, p.Keys)
}

func TestRank_Pagination(t *testing.T) {
	got, err := Rank(fixture(), Query{Sort: SortNew, Page: 1, Limit: 2, Now: now})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, ids(got))

	got, err = Rank(fixture(), Query{Sort: SortNew, Page: 2, Limit: 2, Now: now})
	require.NoError(t, err)
	require.Equal(t, []string{"e"}, ids(got))

	got, err = Rank(fixture(), Query{Sort: SortNew, Page: 10, Limit: 2, Now: now})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	// page*limit не помещается в int: страница пуста, а не первая.
	got, err = Rank(fixture(), Query{Sort: SortNew, Page: math.MaxInt/2 + 1, Limit: 2, Now: now})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestOffset(t *testing.T) {
	tcs := []struct {
		name        string
		page, limit int
		want        int
	}{
		{"first", 0, 25, 0},
		{"regular", 3, 25, 75},
		{"zero_limit", 3, 0, 0},
		{"edge", math.MaxInt / 100, 100, (math.MaxInt / 100) * 100},
		{"overflow", math.MaxInt/100 + 1, 100, math.MaxInt},
		{"huge", math.MaxInt, math.MaxInt, math.MaxInt},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Offset(tc.page, tc.limit))
		})
	}
}

func TestPaginate_Bounds(t *testing.T) {
	items := []int{1, 2, 3}

	require.Equal(t, []int{2, 3}, Paginate(items, 1, 5))
	require.Empty(t, Paginate(items, -1, 2))
	require.Empty(t, Paginate(items, math.MaxInt, 2))
	require.Equal(t, []int{3}, Paginate(items, 2, math.MaxInt))
}

func TestQuery_Validate(t *testing.T) {
	_, err := Rank(nil, Query{Sort: "best", Limit: 1})
	require.ErrorIs(t, err, ErrInvalidSort)

	_, err = Rank(nil, Query{Sort: SortTop, Window: "decade", Limit: 1})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Rank(nil, Query{Sort: SortNew, Page: -1, Limit: 1})
	require.ErrorIs(t, err, ErrInvalidPage)

	_, err = Rank(nil, Query{Sort: SortNew, Limit: 0})
	require.ErrorIs(t, err, ErrInvalidPage)

	p, err := PlanFor(Query{Sort: SortNew, Page: 92233720368547759, Limit: 100})
	require.NoError(t, err)
	require.Equal(t, math.MaxInt, p.Skip)
}
