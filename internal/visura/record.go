package visura

// Record is one property row from a visura table, enriched with the page and
// document context it was extracted under. Optional fields are pointers so
// that a value absent from the source text stays nil and is never replaced
// by a synthesized default.
type Record struct {
	// Identity fields, verbatim from the table cells.
	TableNum    *string `json:"table_num_immobile,omitempty"`
	SezUrbana   *string `json:"sezione_urbana,omitempty"`
	Foglio      *string `json:"foglio,omitempty"`
	Numero      *string `json:"numero,omitempty"`
	Sub         *string `json:"sub,omitempty"`
	ZonaCens    *string `json:"zona_cens,omitempty"`
	MicroZona   *string `json:"micro_zona,omitempty"`
	Categoria   *string `json:"categoria,omitempty"`
	Classe      *string `json:"classe,omitempty"`
	Consistenza *string `json:"consistenza,omitempty"`

	// Area measurements from the "Superficie Catastale" column.
	SuperficieTotale  *float64 `json:"superficie_totale,omitempty"`
	SuperficieEscluse *float64 `json:"superficie_escluse,omitempty"`
	SuperficieRaw     *string  `json:"superficie_raw,omitempty"`

	// Cadastral income, kept as the source string; currency formatting is
	// not interpreted here.
	Rendita *string `json:"rendita,omitempty"`

	// Address components from the "Indirizzo" column.
	ViaType      *string `json:"via_type,omitempty"`
	ViaName      *string `json:"via_name,omitempty"`
	ViaNum       *string `json:"via_num,omitempty"`
	Scala        *string `json:"scala,omitempty"`
	Interno      *string `json:"interno,omitempty"`
	Piano        *string `json:"piano,omitempty"`
	IndirizzoRaw *string `json:"indirizzo_raw,omitempty"`

	// Page context, copied into every record of the page.
	ImmobileComune     *string `json:"immobile_comune,omitempty"`
	ImmobileComuneCode *string `json:"immobile_comune_code,omitempty"`

	// Owner context, extracted once from page 1.
	LocatoreSurname       *string `json:"locatore_surname,omitempty"`
	LocatoreName          *string `json:"locatore_name,omitempty"`
	LocatoreCodiceFiscale *string `json:"locatore_codice_fiscale,omitempty"`

	// Extra holds any further columns (e.g. "Dati Ulteriori") under their
	// normalized header name.
	Extra map[string]string `json:"extra,omitempty"`
}

// AddressComponents is the result of parsing one free-text address line.
// Raw always holds the original input, untouched.
type AddressComponents struct {
	ViaType *string
	ViaName *string
	ViaNum  *string
	Scala   *string
	Interno *string
	Piano   *string
	Raw     string
}

// AreaMeasurements is the result of parsing one "Superficie Catastale" cell.
type AreaMeasurements struct {
	Totale  *float64
	Escluse *float64
	Raw     string
}

// Fields flattens the record into the plain key-value mapping consumed by
// downstream collaborators. Absent fields produce no key.
func (r *Record) Fields() map[string]any {
	m := make(map[string]any)
	putStr := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	putFloat := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		}
	}

	putStr("table_num_immobile", r.TableNum)
	putStr("sezione_urbana", r.SezUrbana)
	putStr("foglio", r.Foglio)
	putStr("numero", r.Numero)
	putStr("sub", r.Sub)
	putStr("zona_cens", r.ZonaCens)
	putStr("micro_zona", r.MicroZona)
	putStr("categoria", r.Categoria)
	putStr("classe", r.Classe)
	putStr("consistenza", r.Consistenza)
	putFloat("superficie_totale", r.SuperficieTotale)
	putFloat("superficie_escluse", r.SuperficieEscluse)
	putStr("superficie_raw", r.SuperficieRaw)
	putStr("rendita", r.Rendita)
	putStr("via_type", r.ViaType)
	putStr("via_name", r.ViaName)
	putStr("via_num", r.ViaNum)
	putStr("scala", r.Scala)
	putStr("interno", r.Interno)
	putStr("piano", r.Piano)
	putStr("indirizzo_raw", r.IndirizzoRaw)
	putStr("immobile_comune", r.ImmobileComune)
	putStr("immobile_comune_code", r.ImmobileComuneCode)
	putStr("locatore_surname", r.LocatoreSurname)
	putStr("locatore_name", r.LocatoreName)
	putStr("locatore_codice_fiscale", r.LocatoreCodiceFiscale)

	for k, v := range r.Extra {
		m[k] = v
	}

	return m
}

func strPtr(s string) *string { return &s }
