package models

// Part is one replacement item inside a kit.
type Part struct {
	NumeroParte string  `bson:"numero_parte" json:"numero_parte"`
	Descripcion string  `bson:"descripcion" json:"descripcion"`
	Sistema     string  `bson:"sistema" json:"sistema"` // "motor", "hidráulico", ...
	Cantidad    float64 `bson:"cantidad" json:"cantidad"`
	Unidad      string  `bson:"unidad" json:"unidad"`
	Notas       string  `bson:"notas,omitempty" json:"notas,omitempty"`
}

// Kit is a named bundle of replacement parts tied to one service interval.
type Kit struct {
	KitID  string   `bson:"kit_id" json:"kit_id"`
	Codigo string   `bson:"codigo" json:"codigo"`
	Nombre string   `bson:"nombre" json:"nombre"`
	Marca  string   `bson:"marca,omitempty" json:"marca,omitempty"`
	Modelo string   `bson:"modelo,omitempty" json:"modelo,omitempty"`
	Partes []Part   `bson:"partes" json:"partes"`
	Tareas []string `bson:"tareas,omitempty" json:"tareas,omitempty"`
}
