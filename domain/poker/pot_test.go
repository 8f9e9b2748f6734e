package poker

import (
	"reflect"
	"testing"
)

func TestBuildPotsSingle(t *testing.T) {
	pots, refund := BuildPots([]uint64{100, 100, 100}, []bool{false, false, false})
	if refund.Seat != -1 {
		t.Fatalf("unexpected refund %+v", refund)
	}
	if len(pots) != 1 || pots[0].Amount != 300 {
		t.Fatalf("pots = %+v", pots)
	}
	if !reflect.DeepEqual(pots[0].Eligible, []int{0, 1, 2}) {
		t.Fatalf("eligible = %v", pots[0].Eligible)
	}
}

func TestBuildPotsThreeWayAllIn(t *testing.T) {
	// stacks 100 / 300 / 1000, everyone all in: 700 of the big stack's bet
	// is uncalled, then a 300 main pot and a 400 side pot
	contribs := []uint64{100, 300, 1000}
	pots, refund := BuildPots(contribs, []bool{false, false, false})
	if refund.Seat != 2 || refund.Amount != 700 {
		t.Fatalf("refund = %+v, want 700 to seat 2", refund)
	}
	if len(pots) != 2 {
		t.Fatalf("got %d pots, want 2", len(pots))
	}
	if pots[0].Amount != 300 || !reflect.DeepEqual(pots[0].Eligible, []int{0, 1, 2}) {
		t.Fatalf("main pot = %+v", pots[0])
	}
	if pots[1].Amount != 400 || !reflect.DeepEqual(pots[1].Eligible, []int{1, 2}) {
		t.Fatalf("side pot = %+v", pots[1])
	}
}

func TestBuildPotsFoldedChipsStayIn(t *testing.T) {
	pots, refund := BuildPots([]uint64{50, 200, 200}, []bool{true, false, false})
	if refund.Seat != -1 {
		t.Fatalf("unexpected refund %+v", refund)
	}
	total := uint64(0)
	for _, p := range pots {
		total += p.Amount
		for _, seat := range p.Eligible {
			if seat == 0 {
				t.Fatal("folded seat listed as eligible")
			}
		}
	}
	if total != 450 {
		t.Fatalf("pots total %d, want 450", total)
	}
}

func TestBuildPotsConservesChips(t *testing.T) {
	cases := [][]uint64{
		{10, 20, 30, 40},
		{500, 500},
		{1, 1000, 999, 3},
		{0, 100, 100},
	}
	for _, contribs := range cases {
		folded := make([]bool, len(contribs))
		pots, refund := BuildPots(contribs, folded)
		in := uint64(0)
		for _, c := range contribs {
			in += c
		}
		out := refund.Amount
		for _, p := range pots {
			out += p.Amount
		}
		if in != out {
			t.Fatalf("contribs %v: %d in, %d out", contribs, in, out)
		}
	}
}

func TestDistributeBestHandTakesEach(t *testing.T) {
	pots := []PotShare{
		{Amount: 300, Eligible: []int{0, 1, 2}},
		{Amount: 400, Eligible: []int{1, 2}},
	}
	ranks := map[int]HandRank{
		0: highRank(t, "Ac Ad Ah Ks Kc"),
		1: highRank(t, "2c 7d 9h Js Kc"),
		2: highRank(t, "Qc Qd 8h 5s 3c"),
	}
	results, err := Distribute(pots, ranks, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Payouts[0] != 300 {
		t.Fatalf("main pot payouts %v, want 300 to seat 0", results[0].Payouts)
	}
	if results[1].Payouts[2] != 400 {
		t.Fatalf("side pot payouts %v, want 400 to seat 2", results[1].Payouts)
	}
}

func TestDistributeOddChipGoesClockwiseFromButton(t *testing.T) {
	pots := []PotShare{{Amount: 101, Eligible: []int{0, 1, 2, 3}}}
	tie := highRank(t, "Ac Kd Qh Js 9c")
	ranks := map[int]HandRank{
		1: tie,
		3: highRank(t, "As Kh Qs Jd 9h"),
	}
	// button on seat 2: seat 3 is first clockwise, so it gets the odd chip
	results, err := Distribute(pots, ranks, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if !reflect.DeepEqual(r.Winners, []int{3, 1}) {
		t.Fatalf("winners = %v, want [3 1]", r.Winners)
	}
	if r.Payouts[3] != 51 || r.Payouts[1] != 50 {
		t.Fatalf("payouts = %v", r.Payouts)
	}
}

func TestDistributeNoContenderIsAnError(t *testing.T) {
	pots := []PotShare{{Amount: 100, Eligible: []int{0}}}
	if _, err := Distribute(pots, map[int]HandRank{}, 0, 2); err == nil {
		t.Fatal("distributing to no ranked contender should fail")
	}
}
