package listing

import (
	"errors"
	"io"
	"strconv"

	"syndeck/internal/api"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// ErrVesselNameRequired is the one client-side validation failure; the
// server owns everything else.
var ErrVesselNameRequired = errors.New("vessel name is required")

// Attachment is a newly chosen file, held in memory until submit.
type Attachment struct {
	Name    string
	Content io.Reader
}

// BrokerMeta is stamped onto every submission.
type BrokerMeta struct {
	UserID int64
	Name   string
	Email  string
}

// Form reconciles one listing between the edit surface and the wire.
// Field state lives in Record; media splits into newly chosen files
// and URLs already stored server-side. A new file always supersedes
// the existing URL for its slot, and unchanged media is never
// retransmitted.
type Form struct {
	Record
	EditingID int64

	featuredImage *Attachment
	galleryFiles  []Attachment
	brochure      *Attachment

	ExistingFeaturedImage string
	ExistingGallery       []string
	ExistingBrochure      string
}

// NewForm returns the empty template. Every wire field exists from the
// start; these three carry non-empty defaults.
func NewForm() *Form {
	f := &Form{}
	f.Type = "catamaran"
	f.Condition = "used"
	f.Status = "pending"
	return f
}

// LoadRecord overlays a fetched record onto the empty template so the
// form always holds every field even when the response omitted some.
// Existing media URLs are captured separately and any previously
// chosen files are dropped.
func (f *Form) LoadRecord(rec Record) {
	tpl := NewForm()
	f.Record = rec
	f.EditingID = rec.ID
	f.Record.ID = 0
	if f.Type == "" {
		f.Type = tpl.Type
	}
	if f.Condition == "" {
		f.Condition = tpl.Condition
	}
	if f.Status == "" {
		f.Status = tpl.Status
	}
	if f.Content == "" {
		f.Content = f.FullDescription
	}

	f.ExistingFeaturedImage = string(rec.FeaturedImage)
	f.ExistingGallery = append([]string(nil), rec.GalleryURLs...)
	f.ExistingBrochure = string(rec.PDFBrochure)
	f.featuredImage = nil
	f.galleryFiles = nil
	f.brochure = nil
}

func (f *Form) AttachFeaturedImage(name string, r io.Reader) {
	f.featuredImage = &Attachment{Name: name, Content: r}
}

func (f *Form) AttachGallery(files ...Attachment) {
	f.galleryFiles = append([]Attachment(nil), files...)
}

func (f *Form) AttachBrochure(name string, r io.Reader) {
	f.brochure = &Attachment{Name: name, Content: r}
}

// FeaturedPreview names what the featured-image slot currently shows:
// the new file when one is chosen, otherwise the stored URL.
func (f *Form) FeaturedPreview() (string, bool) {
	if f.featuredImage != nil {
		return f.featuredImage.Name, true
	}
	if f.ExistingFeaturedImage != "" {
		return f.ExistingFeaturedImage, true
	}
	return "", false
}

// GalleryPreview lists the gallery slot's current contents under the
// same precedence rule as FeaturedPreview.
func (f *Form) GalleryPreview() []string {
	if len(f.galleryFiles) > 0 {
		out := make([]string, len(f.galleryFiles))
		for i, a := range f.galleryFiles {
			out[i] = a.Name
		}
		return out
	}
	return append([]string(nil), f.ExistingGallery...)
}

// BrochurePreview follows the same precedence rule for the PDF slot.
func (f *Form) BrochurePreview() (string, bool) {
	if f.brochure != nil {
		return f.brochure.Name, true
	}
	if f.ExistingBrochure != "" {
		return f.ExistingBrochure, true
	}
	return "", false
}

func (f *Form) Validate() error {
	if f.VesselName == "" {
		return ErrVesselNameRequired
	}
	return nil
}

// Reset returns the form to the empty template and clears all media
// and editing state. Runs after every successful submit.
func (f *Form) Reset() {
	*f = *NewForm()
}

// EncodeMultipart serializes the whole form into one submission
// payload. Every scalar ships as a string, flags as "true"/"false",
// unset numerics as "". Status is forced to pending so broker edits
// always re-enter moderation. Files are appended only when newly
// chosen; the server keeps stored URLs for silent slots.
func (f *Form) EncodeMultipart(meta BrokerMeta) *api.Multipart {
	p := api.NewMultipart()

	p.AddField("vessel_name", string(f.VesselName))
	p.AddField("title", string(f.VesselName))
	p.AddField("type", string(f.Type))
	p.AddField("manufacturer", string(f.Manufacturer))
	p.AddField("model", string(f.Model))
	p.AddField("year", string(f.Year))
	p.AddField("loa_feet", string(f.LOAFeet))
	p.AddField("loa_meters", string(f.LOAMeters))
	p.AddField("beam_feet", string(f.BeamFeet))
	p.AddField("beam_meters", string(f.BeamMeters))
	p.AddField("draft_min_feet", string(f.DraftMinFeet))
	p.AddField("location_city", string(f.LocationCity))
	p.AddField("location_country", string(f.LocationCountry))
	p.AddField("full_description", string(f.FullDescription))
	p.AddField("content", string(f.FullDescription))
	p.AddField("summary", string(f.Summary))
	p.AddField("full_details", string(f.FullDetails))

	p.AddField("price_usd", string(f.PriceUSD))
	p.AddField("price_eur", string(f.PriceEUR))
	p.AddField("price_gbp", string(f.PriceGBP))
	p.AddField("price_cad", string(f.PriceCAD))
	p.AddField("featured", f.Featured.String())
	p.AddField("price_headline", string(f.PriceHeadline))

	p.AddField("fuel_type", string(f.FuelType))
	p.AddField("cruise_speed_kn", string(f.CruiseSpeedKn))
	p.AddField("max_speed_kn", string(f.MaxSpeedKn))
	p.AddField("displacement", string(f.Displacement))
	p.AddField("fuel_tank_capacity_gallons", string(f.FuelTankCapacityGallons))
	p.AddField("water_tank_capacity_gallons", string(f.WaterTankCapacityGallons))

	p.AddField("cabins", string(f.Cabins))
	p.AddField("heads", string(f.Heads))
	p.AddField("sleeps", string(f.Sleeps))
	p.AddField("crew_cabins", string(f.CrewCabins))
	p.AddField("crew_sleeps", string(f.CrewSleeps))
	p.AddField("seating_capacity", string(f.SeatingCapacity))
	p.AddField("king_berths", string(f.KingBerths))
	p.AddField("queen_berths", string(f.QueenBerths))

	p.AddField("hull_material", string(f.HullMaterial))
	p.AddField("condition", string(f.Condition))
	p.AddField("hin_imo", string(f.HinIMO))
	p.AddField("flag", string(f.Flag))

	p.AddField("catamarans_type", string(f.CatamaransType))

	p.AddField("display_length_feet", string(f.DisplayLengthFeet))
	p.AddField("display_length_meters", string(f.DisplayLengthMeters))
	p.AddField("draft_max_feet", string(f.DraftMaxFeet))
	p.AddField("draft_min_meters", string(f.DraftMinMeters))
	p.AddField("draft_max_meters", string(f.DraftMaxMeters))
	p.AddField("displacement2", string(f.Displacement2))

	p.AddField("tower", f.Tower.String())
	p.AddField("builder", f.Builder.String())
	p.AddField("bridge_clearance", f.BridgeClearance.String())
	p.AddField("holding_tank", string(f.HoldingTank))
	p.AddField("dry_weight", string(f.DryWeight))
	p.AddField("dry2_weight", string(f.Dry2Weight))

	p.AddField("engine_qty", string(f.EngineQty))
	p.AddField("engine_make", string(f.EngineMake))
	p.AddField("engine_model", string(f.EngineModel))
	p.AddField("engine_year", string(f.EngineYear))
	p.AddField("drive_type", string(f.DriveType))
	p.AddField("engine_type", string(f.EngineType))
	p.AddField("engine_hours", string(f.EngineHours))
	p.AddField("engine_hours_date", string(f.EngineHoursDate))
	p.AddField("engine_location", string(f.EngineLocation))
	p.AddField("power_hp", string(f.PowerHP))
	p.AddField("power_kw", string(f.PowerKW))

	p.AddField("engine2_qty", string(f.Engine2Qty))
	p.AddField("engine2_make", string(f.Engine2Make))
	p.AddField("engine2_model", string(f.Engine2Model))
	p.AddField("engine2_year", string(f.Engine2Year))
	p.AddField("drive2_type", string(f.Drive2Type))
	p.AddField("engine2_type", string(f.Engine2Type))
	p.AddField("fuel2_type", string(f.Fuel2Type))
	p.AddField("engine2_hours", string(f.Engine2Hours))
	p.AddField("engine2_hours_date", string(f.Engine2HoursDate))
	p.AddField("engine2_location", string(f.Engine2Location))
	p.AddField("power2_hp", string(f.Power2HP))
	p.AddField("power2_kw", string(f.Power2KW))
	p.AddField("cruise2_speed_kn", string(f.Cruise2SpeedKn))
	p.AddField("max2_speed_kn", string(f.Max2SpeedKn))

	p.AddField("fuel2_tank_capacity_gallons", string(f.Fuel2TankCapacityGallons))
	p.AddField("water2_tank_capacity_gallons", string(f.Water2TankCapacityGallons))

	p.AddField("generator", string(f.GeneratorName))
	p.AddField("generator_make", string(f.GeneratorMake))
	p.AddField("generator_kw", string(f.GeneratorKW))
	p.AddField("generator_hours", string(f.GeneratorHours))
	p.AddField("generator_date_hours_recorded", string(f.GeneratorDateHoursRecorded))

	p.AddField("watermaker", string(f.Watermaker))
	p.AddField("features", string(f.Features))
	p.AddField("notable_upgrades", string(f.NotableUpgrades))
	p.AddField("toys_included", string(f.ToysIncluded))
	p.AddField("jacuzzi", f.Jacuzzi.String())
	p.AddField("tender", string(f.Tender))

	p.AddField("is_featured", f.IsFeatured.String())

	if f.brochure != nil {
		p.AddFile("pdf_brochure", f.brochure.Name, f.brochure.Content)
	}
	if f.featuredImage != nil {
		p.AddFile("featured_image", f.featuredImage.Name, f.featuredImage.Content)
	}
	for _, a := range f.galleryFiles {
		p.AddFile("gallery_images", a.Name, a.Content)
	}

	p.AddField("brokerage_id", formatID(meta.UserID))
	p.AddField("broker_name", meta.Name)
	p.AddField("broker_email", meta.Email)
	p.AddField("user_id", formatID(meta.UserID))
	p.AddField("status", "pending")

	return p
}
