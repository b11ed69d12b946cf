package catalog

import "github.com/flotasur/fleet-maintenance/internal/models"

// KomatsuProvider serves the factory PM tables for the Komatsu models the
// fleet operates.
type KomatsuProvider struct {
	intervals map[string][]models.Interval
	kits      map[string]map[string]models.Kit
}

// NewKomatsuProvider builds the provider with its built-in tables.
func NewKomatsuProvider() *KomatsuProvider {
	intervals := []models.Interval{
		{
			Codigo: "PM1", Nombre: "Servicio 250h", HorasIntervalo: 250, Orden: 1,
			Tareas: []string{
				"Cambio de aceite de motor",
				"Cambio de cartucho de filtro de aceite",
				"Lubricación de equipo de trabajo",
			},
		},
		{
			Codigo: "PM2", Nombre: "Servicio 500h", HorasIntervalo: 500, Orden: 2,
			Tareas: []string{
				"Tareas de 250h",
				"Cambio de prefiltro de combustible",
				"Limpieza de filtro de aire",
				"Revisión de nivel de aceite de mandos finales",
			},
		},
		{
			Codigo: "PM3", Nombre: "Servicio 1000h", HorasIntervalo: 1000, Orden: 3,
			Tareas: []string{
				"Tareas de 500h",
				"Cambio de filtro hidráulico de retorno",
				"Cambio de elemento respiradero del tanque hidráulico",
				"Revisión de tensión de orugas",
			},
		},
		{
			Codigo: "PM4", Nombre: "Servicio 2000h", HorasIntervalo: 2000, Orden: 4,
			Tareas: []string{
				"Tareas de 1000h",
				"Cambio de aceite hidráulico",
				"Cambio de refrigerante Supercoolant",
				"Inspección de alternador y motor de arranque",
			},
		},
	}

	kitsByCode := map[string]models.Kit{
		"PM1": {
			KitID: "kom-pm1", Codigo: "PM1", Nombre: "Kit Komatsu 250h", Marca: "Komatsu",
			Partes: []models.Part{
				{NumeroParte: "600-211-1340", Descripcion: "Cartucho de filtro de aceite", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "SYZZ-15W40", Descripcion: "Aceite de motor EO15W40-DH", Sistema: "motor", Cantidad: 23, Unidad: "l"},
			},
		},
		"PM2": {
			KitID: "kom-pm2", Codigo: "PM2", Nombre: "Kit Komatsu 500h", Marca: "Komatsu",
			Partes: []models.Part{
				{NumeroParte: "600-211-1340", Descripcion: "Cartucho de filtro de aceite", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "600-319-3550", Descripcion: "Prefiltro de combustible", Sistema: "combustible", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "600-311-3520", Descripcion: "Filtro principal de combustible", Sistema: "combustible", Cantidad: 1, Unidad: "un"},
			},
		},
		"PM3": {
			KitID: "kom-pm3", Codigo: "PM3", Nombre: "Kit Komatsu 1000h", Marca: "Komatsu",
			Partes: []models.Part{
				{NumeroParte: "600-211-1340", Descripcion: "Cartucho de filtro de aceite", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "07063-01054", Descripcion: "Filtro hidráulico de retorno", Sistema: "hidráulico", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "600-185-4100", Descripcion: "Elemento de filtro de aire", Sistema: "admisión", Cantidad: 1, Unidad: "un"},
			},
		},
		"PM4": {
			KitID: "kom-pm4", Codigo: "PM4", Nombre: "Kit Komatsu 2000h", Marca: "Komatsu",
			Partes: []models.Part{
				{NumeroParte: "600-211-1340", Descripcion: "Cartucho de filtro de aceite", Sistema: "motor", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "07063-01054", Descripcion: "Filtro hidráulico de retorno", Sistema: "hidráulico", Cantidad: 1, Unidad: "un"},
				{NumeroParte: "SYZZ-HO46", Descripcion: "Aceite hidráulico HO46-HM", Sistema: "hidráulico", Cantidad: 130, Unidad: "l"},
				{NumeroParte: "AF-NAC50", Descripcion: "Refrigerante Supercoolant AF-NAC", Sistema: "enfriamiento", Cantidad: 28, Unidad: "l"},
			},
		},
	}

	p := &KomatsuProvider{
		intervals: map[string][]models.Interval{},
		kits:      map[string]map[string]models.Kit{},
	}
	for _, modelo := range []string{"PC200-8", "PC300", "PC350LC", "WA380", "D65PX", "HM300"} {
		key := modelKey(modelo)
		p.intervals[key] = intervals
		p.kits[key] = kitsByCode
	}
	return p
}

func (p *KomatsuProvider) Brand() string { return "Komatsu" }

func (p *KomatsuProvider) Lookup(modelo string) []models.Interval {
	return p.intervals[modelKey(modelo)]
}

func (p *KomatsuProvider) Kit(codigo, modelo string) *models.Kit {
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
