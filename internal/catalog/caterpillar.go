package catalog

import "github.com/flotasur/fleet-maintenance/internal/models"

// CaterpillarProvider serves the factory PM tables for the Caterpillar
// models the fleet operates. Rows are keyed by normalized model name.
type CaterpillarProvider struct {
	intervals map[string][]models.Interval
	kits      map[string]map[string]models.Kit // model key -> interval code -> kit
}

// NewCaterpillarProvider builds the provider with its built-in tables.
func NewCaterpillarProvider() *CaterpillarProvider {
	intervals := []models.Interval{
		{
			Codigo: "PM1", Nombre: "Mantenimiento 250h", HorasIntervalo: 250, Orden: 1,
			Tareas: []string{
				"Cambio de aceite de motor SAE 15W-40",
				"Cambio de filtro de aceite de motor",
				"Engrase de pasadores y bujes",
			},
		},
		{
			Codigo: "PM2", Nombre: "Mantenimiento 500h", HorasIntervalo: 500, Orden: 2,
			Tareas: []string{
				"Tareas de 250h",
				"Cambio de filtros de combustible primario y secundario",
				"Cambio de filtro de aire de cabina",
				"Drenaje de agua y sedimentos del tanque",
			},
		},
		{
			Codigo: "PM3", Nombre: "Mantenimiento 1000h", HorasIntervalo: 1000, Orden: 3,
			Tareas: []string{
				"Tareas de 500h",
				"Cambio de filtro de aceite hidráulico",
				"Muestreo S·O·S de fluidos",
				"Inspección de mandos finales",
			},
		},
		{
			Codigo: "PM4", Nombre: "Mantenimiento 2000h", HorasIntervalo: 2000, Orden: 4,
			Tareas: []string{
				"Tareas de 1000h",
				"Cambio de aceite hidráulico",
				"Cambio de refrigerante ELC",
				"Ajuste de juego de válvulas",
			},
		},
	}

	kitsByCode := map[string]models.Kit{
		"PM1": {
			KitID: "cat-pm1", Codigo: "PM1", Nombre: "Kit Caterpillar 250h", Marca: "Caterpillar",
			Partes: []models.Part{
				{NumeroParte: "1R-0739", Descripcion: "Filtro de aceite de motor", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "3E-9713", Descripcion: "Aceite SAE 15W-40", Sistema: "motor", Cantidad: 20, Unidad: "l"},
			},
		},
		"PM2": {
			KitID: "cat-pm2", Codigo: "PM2", Nombre: "Kit Caterpillar 500h", Marca: "Caterpillar",
			Partes: []models.Part{
				{NumeroParte: "1R-0739", Descripcion: "Filtro de aceite de motor", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "1R-0750", Descripcion: "Filtro de combustible secundario", Sistema: "combustible", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "326-1644", Descripcion: "Filtro de combustible primario", Sistema: "combustible", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "3E-9713", Descripcion: "Aceite SAE 15W-40", Sistema: "motor", Cantidad: 20, Unidad: "l"},
			},
		},
		"PM3": {
			KitID: "cat-pm3", Codigo: "PM3", Nombre: "Kit Caterpillar 1000h", Marca: "Caterpillar",
			Partes: []models.Part{
				{NumeroParte: "1R-0739", Descripcion: "Filtro de aceite de motor", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "1R-0750", Descripcion: "Filtro de combustible secundario", Sistema: "combustible", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "126-1813", Descripcion: "Filtro hidráulico", Sistema: "hidráulico", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "131-8822", Descripcion: "Filtro de aire primario", Sistema: "admisión", Cantidad: 1, Unidad: "un"},
			},
		},
		"PM4": {
			KitID: "cat-pm4", Codigo: "PM4", Nombre: "Kit Caterpillar 2000h", Marca: "Caterpillar",
			Partes: []models.Part{
				{NumeroParte: "1R-0739", Descripcion: "Filtro de aceite de motor", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "126-1813", Descripcion: "Filtro hidráulico", Sistema: "hidráulico", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "238-8648", Descripcion: "Refrigerante ELC", Sistema: "enfriamiento", Cantidad: 30, Unidad: "l", Notas: "Premezclado 50/50"},
				{NumeroParte: "309-6826", Descripcion: "Aceite hidráulico HYDO Advanced 10", Sistema: "hidráulico", Cantidad: 120, Unidad: "l"},
			},
		},
	}

	p := &CaterpillarProvider{
		intervals: map[string][]models.Interval{},
		kits:      map[string]map[string]models.Kit{},
	}
	for _, modelo := range []string{"320D", "320D2", "336", "336D", "950GC", "D6T", "416F"} {
		key := modelKey(modelo)
		p.intervals[key] = intervals
		p.kits[key] = kitsByCode
	}
	return p
}

func (p *CaterpillarProvider) Brand() string { return "Caterpillar" }

func (p *CaterpillarProvider) Lookup(modelo string) []models.Interval {
	return p.intervals[modelKey(modelo)]
}

func (p *CaterpillarProvider) Kit(codigo, modelo string) *models.Kit {
	byCode, ok := p.kits[modelKey(modelo)]
	if !ok {
		return nil
	}
	kit, ok := byCode[codigo]
	if !ok {
		return nil
	}
	return &kit
}
