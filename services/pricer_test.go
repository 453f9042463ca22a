package services

import (
	"math"
	"testing"

	"reptile-pricer/models"
)

func TestDecideMedianScenario(t *testing.T) {
	animal := models.TargetAnimal{Morph: "Banana Ball Python", Quality: models.QualityPet, Cost: 100}
	got := Decide(animal, listingsOf("Banana Ball Python", 200, 220))

	if !got.HasPrice() {
		t.Fatal("expected a price")
	}
	if *got.Price != 209 {
		t.Errorf("price: got %d, want 209", *got.Price)
	}
	want := "Based on 2 similar listings. Median: $210. Quality multiplier: 0.95."
	if got.Rationale != want {
		t.Errorf("rationale: got %q, want %q", got.Rationale, want)
	}
}

func TestDecideNoListings(t *testing.T) {
	for _, q := range []models.Quality{models.QualityPet, models.QualityHighEnd, "mystery"} {
		got := Decide(models.TargetAnimal{Morph: "Banana Ball Python", Quality: q, Cost: 200}, nil)
		if got.HasPrice() {
			t.Errorf("quality %s: expected no price, got %d", q, *got.Price)
		}
		if got.Rationale != NoMatchRationale {
			t.Errorf("quality %s: rationale %q", q, got.Rationale)
		}
	}
}

func TestDecideZeroCostZeroPrice(t *testing.T) {
	got := Decide(models.TargetAnimal{Morph: "Banana Ball Python", Quality: models.QualityHighEnd},
		listingsOf("Banana Ball Python", 0))
	if !got.HasPrice() || *got.Price != 9 {
		t.Fatalf("got %+v, want price 9", got)
	}
}

func TestDecideCases(t *testing.T) {
	tests := []struct {
		name      string
		quality   models.Quality
		cost      int64
		prices    []int64
		wantPrice int64
		wantText  string
	}{
		{"unknown quality uses 1.0", "premium", 100, []int64{500}, 509,
			"Based on 1 similar listings. Median: $500. Quality multiplier: 1.0."},
		{"breeder", models.QualityBreeder, 100, []int64{300, 320}, 329,
			"Based on 2 similar listings. Median: $310. Quality multiplier: 1.05."},
		{"high-end", models.QualityHighEnd, 100, []int64{400}, 469,
			"Based on 1 similar listings. Median: $400. Quality multiplier: 1.15."},
		{"fractional median", "", 0, []int64{200, 211}, 209,
			"Based on 2 similar listings. Median: $205.5. Quality multiplier: 1.0."},
		{"floor wins", models.QualityPet, 200, []int64{100}, 249,
			"Based on 1 similar listings. Median: $100. Quality multiplier: 0.95."},
		{"already ends in nine", "", 0, []int64{129}, 129,
			"Based on 1 similar listings. Median: $129. Quality multiplier: 1.0."},
		{"single digit becomes nine", "", 0, []int64{3}, 9,
			"Based on 1 similar listings. Median: $3. Quality multiplier: 1.0."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			animal := models.TargetAnimal{Morph: "Banana Ball Python", Quality: tt.quality, Cost: tt.cost}
			got := Decide(animal, listingsOf("Banana Ball Python", tt.prices...))
			if !got.HasPrice() {
				t.Fatal("expected a price")
			}
			if *got.Price != tt.wantPrice {
				t.Errorf("price: got %d, want %d", *got.Price, tt.wantPrice)
			}
			if got.Rationale != tt.wantText {
				t.Errorf("rationale: got %q, want %q", got.Rationale, tt.wantText)
			}
		})
	}
}

func TestDecideQualityMonotonic(t *testing.T) {
	listings := listingsOf("Banana Ball Python", 1000, 1100, 1200)
	price := func(q models.Quality) int64 {
		s := Decide(models.TargetAnimal{Morph: "Banana Ball Python", Quality: q, Cost: 100}, listings)
		return *s.Price
	}

	pet, breeder, highEnd := price(models.QualityPet), price(models.QualityBreeder), price(models.QualityHighEnd)
	if pet != 1049 || breeder != 1159 || highEnd != 1269 {
		t.Errorf("prices: pet %d, breeder %d, high-end %d; want 1049, 1159, 1269", pet, breeder, highEnd)
	}
	if !(highEnd >= breeder && breeder >= pet) {
		t.Errorf("prices not monotonic in quality: %d, %d, %d", pet, breeder, highEnd)
	}
}

func TestDecideInvariants(t *testing.T) {
	qualities := []models.Quality{models.QualityPet, models.QualityBreeder, models.QualityHighEnd, "unknown"}
	priceSets := [][]int64{{0}, {7}, {95, 105}, {150, 199, 260}, {1999, 2500, 3100, 4000}}

	for cost := int64(0); cost <= 3000; cost += 37 {
		for _, q := range qualities {
			for _, prices := range priceSets {
				s := Decide(models.TargetAnimal{Morph: "Banana Ball Python", Quality: q, Cost: cost},
					listingsOf("Banana Ball Python", prices...))
				assertPriceInvariants(t, s, cost)
			}
		}
	}
}

func TestDecideSaturates(t *testing.T) {
	tests := []struct {
		quality models.Quality
		cost    int64
		prices  []int64
	}{
		{models.QualityHighEnd, 0, []int64{9_000_000_000_000_000_000}},
		{models.QualityBreeder, 0, []int64{math.MaxInt64, math.MaxInt64}},
		{models.QualityPet, 9_000_000_000_000_000_000, []int64{100}},
		{models.QualityPet, math.MaxInt64, []int64{100}},
	}

	for _, tt := range tests {
		animal := models.TargetAnimal{Morph: "Banana Ball Python", Quality: tt.quality, Cost: tt.cost}
		s := Decide(animal, listingsOf("Banana Ball Python", tt.prices...))
		assertPriceInvariants(t, s, tt.cost)
		if *s.Price != maxPrice {
			t.Errorf("%s cost %d prices %v: got %d; want %d", tt.quality, tt.cost, tt.prices, *s.Price, maxPrice)
		}
	}
}

func FuzzDecide(f *testing.F) {
	f.Add(int64(100), int64(200), int64(220), uint8(0))
	f.Add(int64(0), int64(0), int64(0), uint8(2))
	f.Add(int64(5000), int64(10), int64(30), uint8(3))
	f.Add(int64(0), int64(9_000_000_000_000_000_000), int64(math.MaxInt64), uint8(2))
	f.Add(int64(math.MaxInt64), int64(100), int64(100), uint8(0))

	qualities := []models.Quality{models.QualityPet, models.QualityBreeder, models.QualityHighEnd, "other"}
	f.Fuzz(func(t *testing.T, cost, p1, p2 int64, q uint8) {
		if cost < 0 || p1 < 0 || p2 < 0 {
			t.Skip("amounts are never negative")
		}
		animal := models.TargetAnimal{
			Morph:   "Banana Ball Python",
			Quality: qualities[int(q)%len(qualities)],
			Cost:    cost,
		}
		s := Decide(animal, listingsOf("Banana Ball Python", p1, p2))
		assertPriceInvariants(t, s, cost)
	})
}

func assertPriceInvariants(t *testing.T, s models.PriceSuggestion, cost int64) {
	t.Helper()
	if !s.HasPrice() {
		t.Fatalf("cost %d: expected a price, got %q", cost, s.Rationale)
	}
	if *s.Price < 0 {
		t.Errorf("cost %d: negative price %d", cost, *s.Price)
	}
	if *s.Price%10 != 9 {
		t.Errorf("cost %d: price %d does not end in 9", cost, *s.Price)
	}
	if floor := MarginFloor(cost); *s.Price < floor {
		t.Errorf("cost %d: price %d below floor %d", cost, *s.Price, floor)
	}
}

func TestMarginFloor(t *testing.T) {
	tests := []struct{ cost, want int64 }{
		{0, 0}, {1, 1}, {3, 4}, {5, 6}, {100, 120}, {199, 239},
		{MaxAmount, 1_200_000_000_000},
		{math.MaxInt64, maxPrice},
	}
	for _, tt := range tests {
		if got := MarginFloor(tt.cost); got != tt.want {
			t.Errorf("MarginFloor(%d) = %d; want %d", tt.cost, got, tt.want)
		}
	}
}

func TestEndInNine(t *testing.T) {
	tests := []struct{ in, want int64 }{
		{0, 9}, {3, 9}, {9, 9}, {10, 19}, {200, 209}, {1269, 1269}, {1270, 1279},
	}
	for _, tt := range tests {
		if got := EndInNine(tt.in); got != tt.want {
			t.Errorf("EndInNine(%d) = %d; want %d", tt.in, got, tt.want)
		}
	}
}
