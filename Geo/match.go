package Geo

import (
	"log"
	"math"

	"Crane/Models"

	"gorm.io/gorm"
)

const earthRadiusKm = 6371.0

// CalculateDistance returns the great-circle distance between two points
// in meters using the Haversine formula.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}

// NearestProject finds the closest project with coordinates within radiusM
// meters. Returns nil when nothing qualifies.
func NearestProject(projects []Models.Project, lat, lng, radiusM float64) *Models.Project {
	var best *Models.Project
	bestDist := radiusM
	for i := range projects {
		p := &projects[i]
		if p.Latitude == 0 && p.Longitude == 0 {
			continue
		}
		d := CalculateDistance(lat, lng, p.Latitude, p.Longitude)
		if d <= bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// MatchUnassignedMedia assigns geotagged media items without a project to
// the nearest project within radiusM. Returns the number assigned.
func MatchUnassignedMedia(db *gorm.DB, radiusM float64) (int, error) {
	var items []Models.MediaItem
	if err := db.Where("project_id IS NULL AND has_location = ?", true).Find(&items).Error; err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	var projects []Models.Project
	if err := db.Where("status IN ?", []string{"planning", "active"}).Find(&projects).Error; err != nil {
		return 0, err
	}

	assigned := 0
	for i := range items {
		item := &items[i]
		project := NearestProject(projects, item.Latitude, item.Longitude, radiusM)
		if project == nil {
			continue
		}
		if err := db.Model(item).Update("project_id", project.ID).Error; err != nil {
			log.Printf("Failed to assign media %d to project %d: %v", item.ID, project.ID, err)
			continue
		}
		assigned++
	}
	return assigned, nil
}
