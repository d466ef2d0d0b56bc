package farm

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestPlantTypeNames(t *testing.T) {
	tests := map[string]struct {
		plant   PlantType
		expName string
		expStr  string
	}{
		"circle":   {plant: Circle, expName: "circle", expStr: "Circle"},
		"triangle": {plant: Triangle, expName: "triangle", expStr: "Triangle"},
		"square":   {plant: Square, expName: "square", expStr: "Square"},
		"none":     {plant: PlantType(0), expName: "none", expStr: "None"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "name", tt.plant.Name(), tt.expName)
			testutil.AssertEqual(t, "string", tt.plant.String(), tt.expStr)
		})
	}
}

func TestParsePlantType(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    PlantType
		expErr string
	}{
		"lower":     {in: "triangle", exp: Triangle},
		"mixed":     {in: " SQuare ", exp: Square},
		"number":    {in: "1", exp: Circle},
		"last":      {in: "3", exp: Square},
		"zero":      {in: "0", expErr: `unknown plant type "0"`},
		"unknown":   {in: "hexagon", expErr: `unknown plant type "hexagon"`},
		"displayed": {in: "Circle", exp: Circle},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParsePlantType(tt.in)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "plant", got, tt.exp)
		})
	}
}

func TestWeatherNames(t *testing.T) {
	tests := map[string]struct {
		weather Weather
		expName string
		expStr  string
	}{
		"normal":  {weather: Normal, expName: "normal", expStr: "Normal"},
		"sunny":   {weather: Sunny, expName: "sunny", expStr: "Sunny"},
		"rainy":   {weather: Rainy, expName: "rainy", expStr: "Rainy"},
		"unknown": {weather: Weather(7), expName: "normal", expStr: "Normal"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "name", tt.weather.Name(), tt.expName)
			testutil.AssertEqual(t, "string", tt.weather.String(), tt.expStr)
		})
	}
}

func TestWeatherJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		W Weather `json:"w"`
	}{W: Rainy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "encoded", string(data), `{"w":"rainy"}`)

	var w Weather
	if err := w.UnmarshalText([]byte("SUNNY")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "decoded", w, Sunny)
	testutil.AssertErrorContains(t, w.UnmarshalText([]byte("foggy")), `unknown weather "foggy"`)
}
