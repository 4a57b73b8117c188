package usecase

import (
	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/utils"
)

// Marker - одиночная метка дома, готовая к отрисовке
type Marker struct {
	Building domain.Building `json:"building"`
	Glyph    domain.Glyph    `json:"glyph"`
	// Emphasized поднимает маркер над остальными (есть высокие жалобы)
	Emphasized bool `json:"emphasized"`
	// Dimmed приглушает маркер, когда выбран другой дом
	Dimmed bool `json:"dimmed"`
}

// Cluster - группа близких маркеров, схлопнутая в одну иконку со счётчиком
type Cluster struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Count int     `json:"count"`
	// BuildingIDs - дома внутри кластера
	BuildingIDs []int64 `json:"building_ids"`
}

// ClusterRenderer группирует маркеры в пределах фиксированного пиксельного
// радиуса на текущем зуме. Группировка чисто геометрическая: при зуме
// ближе радиус в градусах сжимается и кластеры распадаются сами.
type ClusterRenderer struct {
	radiusPx float64
}

func NewClusterRenderer(radiusPx float64) *ClusterRenderer {
	return &ClusterRenderer{radiusPx: radiusPx}
}

type group struct {
	sumX, sumY float64
	buildings  []domain.Building
}

// Build раскладывает дома на одиночные маркеры и кластеры. Дом попадает
// в первый кластер, чей центр ближе радиуса, иначе основывает новый -
// тот же жадный порядок, что у стандартного кластерного слоя.
func (r *ClusterRenderer) Build(buildings []domain.Building, zoom int, selectedID *int64) ([]Marker, []Cluster) {
	groups := make([]*group, 0, len(buildings))

	for _, b := range buildings {
		x, y := utils.ProjectPixel(b.Lat, b.Lng, zoom)

		var joined *group
		for _, g := range groups {
			n := float64(len(g.buildings))
			cx, cy := g.sumX/n, g.sumY/n
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r.radiusPx*r.radiusPx {
				joined = g
				break
			}
		}
		if joined == nil {
			joined = &group{}
			groups = append(groups, joined)
		}
		joined.sumX += x
		joined.sumY += y
		joined.buildings = append(joined.buildings, b)
	}

	var markers []Marker
	var clusters []Cluster
	hasSelection := selectedID != nil

	for _, g := range groups {
		if len(g.buildings) == 1 {
			b := g.buildings[0]
			selected := hasSelection && *selectedID == b.ID
			markers = append(markers, Marker{
				Building:   b,
				Glyph:      ResolveIcon(b.EffectiveStatus(), b.HelpCount, selected),
				Emphasized: b.HighCount > 0,
				Dimmed:     hasSelection && !selected,
			})
			continue
		}

		var lat, lng float64
		ids := make([]int64, 0, len(g.buildings))
		for _, b := range g.buildings {
			lat += b.Lat
			lng += b.Lng
			ids = append(ids, b.ID)
		}
		n := float64(len(g.buildings))
		clusters = append(clusters, Cluster{
			Lat:         lat / n,
			Lng:         lng / n,
			Count:       len(g.buildings),
			BuildingIDs: ids,
		})
	}

	return markers, clusters
}
