package stats

import "testing"

func TestTopN_TieBrokenByName(t *testing.T) {
	t.Parallel()

	rows := []PlayerGameRow{
		{Name: "B", Points: 30},
		{Name: "C", Points: 25},
		{Name: "A", Points: 30},
	}

	got := TopN(rows, StatPoints, 3)
	want := []LeaderEntry{{Name: "A", Value: 30}, {Name: "B", Value: 30}, {Name: "C", Value: 25}}
	if len(got) != len(want) {
		t.Fatalf("expected %d leaders, got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Value != want[i].Value {
			t.Fatalf("unexpected leader at %d: got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestTopN_CaseInsensitiveNameOrder(t *testing.T) {
	t.Parallel()

	totals := []PlayerTotals{
		{PlayerID: 1, Name: "zed", Values: map[Stat]float64{StatAssists: 12}},
		{PlayerID: 2, Name: "Amy", Values: map[Stat]float64{StatAssists: 12}},
		{PlayerID: 3, Name: "bob", Values: map[Stat]float64{StatAssists: 12}},
	}

	got := TopN(totals, StatAssists, 10)
	if got[0].Name != "Amy" || got[1].Name != "bob" || got[2].Name != "zed" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].PlayerID != 2 {
		t.Fatalf("expected player id to be carried, got=%d", got[0].PlayerID)
	}
}

func TestTopN_DropsNonPositiveAndTruncates(t *testing.T) {
	t.Parallel()

	totals := []PlayerTotals{
		{PlayerID: 1, Name: "A", Values: map[Stat]float64{StatBlocks: 0}},
		{PlayerID: 2, Name: "B", Values: map[Stat]float64{StatBlocks: -1}},
		{PlayerID: 3, Name: "C", Values: map[Stat]float64{StatBlocks: 4}},
		{PlayerID: 4, Name: "D", Values: map[Stat]float64{StatBlocks: 9}},
		{PlayerID: 5, Name: "E"},
	}

	got := TopN(totals, StatBlocks, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 leader, got=%d", len(got))
	}
	if got[0].Name != "D" {
		t.Fatalf("expected D to lead, got=%s", got[0].Name)
	}

	if got := TopN(totals, StatBlocks, 0); len(got) != 0 {
		t.Fatalf("expected no leaders for n=0, got=%d", len(got))
	}
}

func TestTopN_Deterministic(t *testing.T) {
	t.Parallel()

	a := []PlayerTotals{
		{PlayerID: 1, Name: "x", Values: map[Stat]float64{StatPoints: 10}},
		{PlayerID: 2, Name: "Y", Values: map[Stat]float64{StatPoints: 10}},
		{PlayerID: 3, Name: "w", Values: map[Stat]float64{StatPoints: 11}},
	}
	b := []PlayerTotals{a[2], a[1], a[0]}

	left := TopN(a, StatPoints, 3)
	right := TopN(b, StatPoints, 3)
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("expected identical ranking, got=%+v and %+v", left, right)
		}
	}
}

func TestAggregateTotals_SumsAndKeepsLatestName(t *testing.T) {
	t.Parallel()

	seasons := [][]PlayerTotals{
		{
			{PlayerID: 7, Name: "Old Name", Values: map[Stat]float64{StatPoints: 100, StatAssists: 5}},
			{PlayerID: 8, Name: "Solo", Values: map[Stat]float64{StatPoints: 3}},
		},
		{
			{PlayerID: 7, Name: "New Name", Values: map[Stat]float64{StatPoints: 50, StatRebounds: 20}},
		},
	}

	got := AggregateTotals(seasons)
	if len(got) != 2 {
		t.Fatalf("expected 2 players, got=%d", len(got))
	}
	first := got[0]
	if first.PlayerID != 7 || first.Name != "New Name" {
		t.Fatalf("unexpected aggregate identity: %+v", first)
	}
	if first.Value(StatPoints) != 150 {
		t.Fatalf("expected points=150, got=%v", first.Value(StatPoints))
	}
	if first.Value(StatAssists) != 5 || first.Value(StatRebounds) != 20 {
		t.Fatalf("unexpected aggregate values: %+v", first.Values)
	}
}

func TestLeadersChanged(t *testing.T) {
	t.Parallel()

	base := Leaders{
		StatPoints: {
			{Name: "A", Value: 30},
			{Name: "B", Value: 20},
			{Name: "C", Value: 10},
			{Name: "D", Value: 5},
		},
	}

	t.Run("same top three", func(t *testing.T) {
		current := Leaders{
			StatPoints: {
				{Name: "A", Value: 30},
				{Name: "B", Value: 20},
				{Name: "C", Value: 10},
				{Name: "E", Value: 9},
			},
		}
		if LeadersChanged(base, current) {
			t.Fatalf("expected no change when only fourth place differs")
		}
	})

	t.Run("value differs", func(t *testing.T) {
		current := Leaders{
			StatPoints: {
				{Name: "A", Value: 31},
				{Name: "B", Value: 20},
				{Name: "C", Value: 10},
			},
		}
		if !LeadersChanged(base, current) {
			t.Fatalf("expected change when a top value differs")
		}
	})

	t.Run("new stat populated", func(t *testing.T) {
		current := Leaders{
			StatPoints: base[StatPoints],
			StatSteals: {{Name: "A", Value: 1}},
		}
		if !LeadersChanged(base, current) {
			t.Fatalf("expected change when a stat gains leaders")
		}
	})
}

func TestStatDisplayName(t *testing.T) {
	t.Parallel()

	if got := StatThreesMade.DisplayName(); got != "Threes Made" {
		t.Fatalf("expected Threes Made, got=%q", got)
	}
	if got := StatPoints.DisplayName(); got != "Points" {
		t.Fatalf("expected Points, got=%q", got)
	}
}

func TestPlayerGameRow_PercentFallsBackToMakes(t *testing.T) {
	t.Parallel()

	row := PlayerGameRow{FGM: 6, FGA: 12}
	if got := row.Value(StatFGPercent); got != 50 {
		t.Fatalf("expected derived fg%%=50, got=%v", got)
	}
	row.FGPercent = 61.5
	if got := row.Value(StatFGPercent); got != 61.5 {
		t.Fatalf("expected reported fg%%=61.5, got=%v", got)
	}
}
