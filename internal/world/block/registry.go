package block

import (
	"errors"
	"fmt"
)

// BlockID представляет числовой идентификатор блока
type BlockID uint16

// AirID зарезервирован за воздухом: плотная нумерация всегда начинается с него
const AirID BlockID = 0

var (
	// ErrDuplicateBlock возвращается при повторной регистрации идентификатора
	ErrDuplicateBlock = errors.New("блок с таким идентификатором уже зарегистрирован")
	// ErrUnknownBlock возвращается при поиске незарегистрированного блока
	ErrUnknownBlock = errors.New("блок не зарегистрирован")
)

// Definition описывает неизменяемое определение блока.
// Числовой ID присваивается реестром один раз и стабилен в течение процесса.
type Definition struct {
	ID          BlockID // Присваивается реестром при регистрации
	Name        string  // Уникальный строковый идентификатор ("stone", "dirt", ...)
	DisplayName string  // Отображаемое имя для UI/отладки
	Solid       bool    // Участвует ли блок в коллизиях/мешинге
	TextureID   uint16  // Индекс текстуры для рендера
}

// Registry хранит определения блоков с двунаправленным поиском.
// Реестр не является глобальным: все компоненты получают ссылку явно.
// Регистрация append-only — удаление блока сделало бы невалидными
// сохранённые чанки, поэтому операции удаления нет.
type Registry struct {
	byID   []Definition
	byName map[string]BlockID
}

// NewRegistry создаёт реестр с уже зарегистрированным воздухом (ID 0)
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]BlockID),
	}

	// Воздух регистрируется первым, чтобы закрепить за ним ID 0
	if _, err := r.Register(Definition{Name: "air", DisplayName: "Воздух", Solid: false}); err != nil {
		panic(err) // пустой реестр не может содержать дубликат
	}
	return r
}

// Register добавляет определение блока и возвращает присвоенный плотный ID.
// Поле def.ID игнорируется: нумерация идёт строго в порядке регистрации.
func (r *Registry) Register(def Definition) (BlockID, error) {
	if def.Name == "" {
		return 0, errors.New("регистрация блока: пустой идентификатор")
	}
	if _, exists := r.byName[def.Name]; exists {
		return 0, fmt.Errorf("регистрация блока %q: %w", def.Name, ErrDuplicateBlock)
	}

	id := BlockID(len(r.byID))
	def.ID = id
	r.byID = append(r.byID, def)
	r.byName[def.Name] = id
	return id, nil
}

// ByID возвращает определение блока по числовому ID
func (r *Registry) ByID(id BlockID) (Definition, error) {
	if int(id) >= len(r.byID) {
		return Definition{}, fmt.Errorf("поиск блока по ID %d: %w", id, ErrUnknownBlock)
	}
	return r.byID[id], nil
}

// ByName возвращает определение блока по строковому идентификатору
func (r *Registry) ByName(name string) (Definition, error) {
	id, exists := r.byName[name]
	if !exists {
		return Definition{}, fmt.Errorf("поиск блока %q: %w", name, ErrUnknownBlock)
	}
	return r.byID[id], nil
}

// IDByName возвращает числовой ID по строковому идентификатору
func (r *Registry) IDByName(name string) (BlockID, error) {
	id, exists := r.byName[name]
	if !exists {
		return 0, fmt.Errorf("поиск блока %q: %w", name, ErrUnknownBlock)
	}
	return id, nil
}

// IsSolid сообщает, твёрдый ли блок; незарегистрированный ID считается воздухом
func (r *Registry) IsSolid(id BlockID) bool {
	if int(id) >= len(r.byID) {
		return false
	}
	return r.byID[id].Solid
}

// IsAir проверяет, является ли блок воздухом
func (r *Registry) IsAir(id BlockID) bool {
	return id == AirID
}

// Len возвращает количество зарегистрированных блоков
func (r *Registry) Len() int {
	return len(r.byID)
}

// All возвращает копию всех определений в порядке регистрации
func (r *Registry) All() []Definition {
	defs := make([]Definition, len(r.byID))
	copy(defs, r.byID)
	return defs
}
