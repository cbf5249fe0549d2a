package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jaswdr/faker"
)

type geo struct {
	country string
	regions []string
}

var geos = []geo{
	{"Brazil", []string{"Rio de Janeiro", "Sao Paulo", "Salvador", "Recife", "Florianopolis"}},
	{"Portugal", []string{"Lisbon", "Porto", "Coimbra"}},
	{"Italy", []string{"Rome", "Florence", "Naples"}},
	{"Mexico", []string{"Mexico City", "Oaxaca"}},
}

var categories = []string{
	"Brazilian", "Seafood", "Italian", "Pizza", "Japanese", "Sushi",
	"Steakhouse", "Vegetarian", "Cafe", "Bar", "Mexican", "Portuguese",
}

type seedRow struct {
	LocationID string
	Name       string
	Country    string
	Category   *string
	Rating     *float64
	ImageURL   *string
	ReviewJSON []byte
}

// generate builds n restaurants. The same seed always yields the same rows.
func generate(seed int64, n int) []seedRow {
	fake := faker.NewWithSeed(rand.NewSource(seed))
	rows := make([]seedRow, 0, n)

	for i := 0; i < n; i++ {
		g := geos[fake.IntBetween(0, len(geos)-1)]
		region := fake.RandomStringElement(g.regions)
		name := strings.TrimSpace(fake.Company().Name())
		locationID := fmt.Sprintf("%d", 1000000+i)
		geoID := 300000 + fake.IntBetween(0, 9999)

		row := seedRow{
			LocationID: locationID,
			Name:       name,
			Country:    g.country,
		}
		if fake.IntBetween(1, 10) > 1 {
			c := fake.RandomStringElement(categories)
			row.Category = &c
		}
		if fake.IntBetween(1, 100) > 15 {
			r := fake.Float64(1, 1, 5)
			row.Rating = &r
		}
		if fake.Bool() {
			u := fmt.Sprintf("https://picsum.photos/seed/%s/400/300", locationID)
			row.ImageURL = &u
		}

		review := map[string]any{
			"locationId":    locationID,
			"name":          name,
			"parentGeoName": region,
			"restaurantsId": fmt.Sprintf("Restaurant_Review-g%d-d%s-Reviews-%s", geoID, locationID, strings.ReplaceAll(name, " ", "_")),
			"reviewCount":   fake.IntBetween(0, 2500),
			"priceTag":      fake.RandomStringElement([]string{"$", "$$ - $$$", "$$$$"}),
		}
		if row.Rating != nil {
			review["averageRating"] = *row.Rating
		}
		row.ReviewJSON, _ = json.Marshal(review)

		rows = append(rows, row)
	}
	return rows
}
