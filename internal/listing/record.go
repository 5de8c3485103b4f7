package listing

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Str is a wire scalar. The backend accepts and returns every listing
// field as a string, but historical rows can carry raw numbers or
// booleans, so decoding tolerates all of them. null reads as empty.
type Str string

func (s *Str) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Str(v)
		return nil
	}
	*s = Str(b)
	return nil
}

func (s Str) String() string { return string(s) }

// Flag is a wire boolean, accepted as true/false or their string and
// numeric spellings.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true", `"true"`, "1", `"1"`:
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f Flag) String() string { return strconv.FormatBool(bool(f)) }

// Gallery is the gallery_urls column: either a JSON array of URLs or,
// on older rows, a JSON string holding an encoded array.
type Gallery []string

func (g *Gallery) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*g = nil
		return nil
	}
	if b[0] == '[' {
		var v []string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*g = v
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*g = nil
		return nil
	}
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		*g = nil
		return nil
	}
	*g = v
	return nil
}

// Record is one boat listing as the backend stores it. The wire format
// is flat; the groups below exist so code can reason about one block
// at a time. Embedding keeps the JSON mapping flat.
type Record struct {
	ID         int64 `json:"id,omitempty"`
	Core
	Dimensions
	Pricing
	Performance
	Accommodation
	Engine
	Engine2
	Tanks
	Generator
	Build
	Extras
	Media
	Syndication
}

type Core struct {
	VesselName      Str `json:"vessel_name"`
	Title           Str `json:"title"`
	Type            Str `json:"type"`
	CatamaransType  Str `json:"catamarans_type"`
	Manufacturer    Str `json:"manufacturer"`
	Model           Str `json:"model"`
	Year            Str `json:"year"`
	Condition       Str `json:"condition"`
	HullMaterial    Str `json:"hull_material"`
	HinIMO          Str `json:"hin_imo"`
	Flag            Str `json:"flag"`
	LocationCity    Str `json:"location_city"`
	LocationCountry Str `json:"location_country"`
	Summary         Str `json:"summary"`
	FullDescription Str `json:"full_description"`
	Content         Str `json:"content"`
	FullDetails     Str `json:"full_details"`
	Status          Str `json:"status"`
}

type Dimensions struct {
	LOAFeet             Str `json:"loa_feet"`
	LOAMeters           Str `json:"loa_meters"`
	BeamFeet            Str `json:"beam_feet"`
	BeamMeters          Str `json:"beam_meters"`
	DraftMinFeet        Str `json:"draft_min_feet"`
	DraftMaxFeet        Str `json:"draft_max_feet"`
	DraftMinMeters      Str `json:"draft_min_meters"`
	DraftMaxMeters      Str `json:"draft_max_meters"`
	DisplayLengthFeet   Str `json:"display_length_feet"`
	DisplayLengthMeters Str `json:"display_length_meters"`
	Displacement        Str `json:"displacement"`
	Displacement2       Str `json:"displacement2"`
}

type Pricing struct {
	PriceUSD      Str  `json:"price_usd"`
	PriceEUR      Str  `json:"price_eur"`
	PriceGBP      Str  `json:"price_gbp"`
	PriceCAD      Str  `json:"price_cad"`
	PriceHeadline Str  `json:"price_headline"`
	Featured      Flag `json:"featured"`
	IsFeatured    Flag `json:"is_featured"`
}

type Performance struct {
	FuelType       Str `json:"fuel_type"`
	CruiseSpeedKn  Str `json:"cruise_speed_kn"`
	MaxSpeedKn     Str `json:"max_speed_kn"`
	Cruise2SpeedKn Str `json:"cruise2_speed_kn"`
	Max2SpeedKn    Str `json:"max2_speed_kn"`
}

type Accommodation struct {
	Cabins          Str `json:"cabins"`
	Heads           Str `json:"heads"`
	Sleeps          Str `json:"sleeps"`
	SeatingCapacity Str `json:"seating_capacity"`
	KingBerths      Str `json:"king_berths"`
	QueenBerths     Str `json:"queen_berths"`
	CrewCabins      Str `json:"crew_cabins"`
	CrewSleeps      Str `json:"crew_sleeps"`
}

type Engine struct {
	EngineQty       Str `json:"engine_qty"`
	EngineMake      Str `json:"engine_make"`
	EngineModel     Str `json:"engine_model"`
	EngineYear      Str `json:"engine_year"`
	DriveType       Str `json:"drive_type"`
	EngineType      Str `json:"engine_type"`
	EngineHours     Str `json:"engine_hours"`
	EngineHoursDate Str `json:"engine_hours_date"`
	EngineLocation  Str `json:"engine_location"`
	PowerHP         Str `json:"power_hp"`
	PowerKW         Str `json:"power_kw"`
}

type Engine2 struct {
	Engine2Qty       Str `json:"engine2_qty"`
	Engine2Make      Str `json:"engine2_make"`
	Engine2Model     Str `json:"engine2_model"`
	Engine2Year      Str `json:"engine2_year"`
	Drive2Type       Str `json:"drive2_type"`
	Engine2Type      Str `json:"engine2_type"`
	Fuel2Type        Str `json:"fuel2_type"`
	Engine2Hours     Str `json:"engine2_hours"`
	Engine2HoursDate Str `json:"engine2_hours_date"`
	Engine2Location  Str `json:"engine2_location"`
	Power2HP         Str `json:"power2_hp"`
	Power2KW         Str `json:"power2_kw"`
}

type Tanks struct {
	FuelTankCapacityGallons   Str `json:"fuel_tank_capacity_gallons"`
	WaterTankCapacityGallons  Str `json:"water_tank_capacity_gallons"`
	Fuel2TankCapacityGallons  Str `json:"fuel2_tank_capacity_gallons"`
	Water2TankCapacityGallons Str `json:"water2_tank_capacity_gallons"`
	HoldingTank               Str `json:"holding_tank"`
	DryWeight                 Str `json:"dry_weight"`
	Dry2Weight                Str `json:"dry2_weight"`
}

type Generator struct {
	GeneratorName              Str `json:"generator"`
	GeneratorMake              Str `json:"generator_make"`
	GeneratorKW                Str `json:"generator_kw"`
	GeneratorHours             Str `json:"generator_hours"`
	GeneratorDateHoursRecorded Str `json:"generator_date_hours_recorded"`
}

type Build struct {
	Tower           Flag `json:"tower"`
	Builder         Flag `json:"builder"`
	BridgeClearance Flag `json:"bridge_clearance"`
}

type Extras struct {
	Watermaker      Str  `json:"watermaker"`
	Features        Str  `json:"features"`
	NotableUpgrades Str  `json:"notable_upgrades"`
	ToysIncluded    Str  `json:"toys_included"`
	Jacuzzi         Flag `json:"jacuzzi"`
	Tender          Str  `json:"tender"`
}

type Media struct {
	FeaturedImage Str     `json:"featured_image"`
	GalleryURLs   Gallery `json:"gallery_urls"`
	PDFBrochure   Str     `json:"pdf_brochure"`
}

// Syndication is the broker attribution the server stamps on a row.
type Syndication struct {
	BrokerID    int64 `json:"broker_id,omitempty"`
	BrokerName  Str   `json:"broker_name,omitempty"`
	BrokerEmail Str   `json:"broker_email,omitempty"`
	UpdatedAt   Str   `json:"updated_at,omitempty"`
}
