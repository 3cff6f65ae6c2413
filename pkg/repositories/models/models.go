package models

// Identity is a caller identity resolved by the Realmshaper identity
// service. It exists only for the duration of a single request and is
// never persisted.
type Identity struct {
	ID string `json:"id"`
}

// Monster is a game entity owned by a single user. OwnerID is assigned
// server-side at creation and never reassigned.
type Monster struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	HP      int    `json:"hp"`
	Exp     int    `json:"exp"`
	AC      int    `json:"ac"`
	DPR     int    `json:"dpr"`
	Atk     int    `json:"atk"`
	SDC     int    `json:"sdc"`
	CR      string `json:"cr"`
	OwnerID string `json:"ownerId"`
}

// MonsterPatch is a partial set of monster fields for an update. Nil
// fields are left untouched. The owner is not patchable.
type MonsterPatch struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
	HP   *int    `json:"hp"`
	Exp  *int    `json:"exp"`
	AC   *int    `json:"ac"`
	DPR  *int    `json:"dpr"`
	Atk  *int    `json:"atk"`
	SDC  *int    `json:"sdc"`
	CR   *string `json:"cr"`
}

// Apply merges the non-nil patch fields onto the monster.
func (p *MonsterPatch) Apply(m *Monster) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.HP != nil {
		m.HP = *p.HP
	}
	if p.Exp != nil {
		m.Exp = *p.Exp
	}
	if p.AC != nil {
		m.AC = *p.AC
	}
	if p.DPR != nil {
		m.DPR = *p.DPR
	}
	if p.Atk != nil {
		m.Atk = *p.Atk
	}
	if p.SDC != nil {
		m.SDC = *p.SDC
	}
	if p.CR != nil {
		m.CR = *p.CR
	}
}
