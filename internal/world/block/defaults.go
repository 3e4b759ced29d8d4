package block

// RegisterDefaults регистрирует стандартный набор блоков песочницы.
// Порядок регистрации фиксирован: от него зависят ID в сохранённых чанках.
func RegisterDefaults(r *Registry) error {
	defaults := []Definition{
		{Name: "stone", DisplayName: "Камень", Solid: true, TextureID: 1},
		{Name: "dirt", DisplayName: "Земля", Solid: true, TextureID: 2},
		{Name: "grass", DisplayName: "Трава", Solid: true, TextureID: 3},
		{Name: "sand", DisplayName: "Песок", Solid: true, TextureID: 4},
		{Name: "water", DisplayName: "Вода", Solid: false, TextureID: 5},
		{Name: "wood", DisplayName: "Дерево", Solid: true, TextureID: 6},
		{Name: "leaves", DisplayName: "Листва", Solid: true, TextureID: 7},
	}

	for _, def := range defaults {
		if _, err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}
