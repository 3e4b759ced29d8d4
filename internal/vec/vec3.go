package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Применяется и для мировых координат вокселей, и для локальных координат
// внутри чанка (0≤X<16, 0≤Y<256, 0≤Z<16).
type Vec3 struct {
	X int
	Y int
	Z int
}

// ToChunkCoords преобразует мировые координаты в координаты чанка.
// Арифметический сдвиг вправо даёт деление на 16 с округлением к минус
// бесконечности, поэтому отрицательные координаты отображаются корректно.
func (v Vec3) ToChunkCoords() Vec2 {
	return Vec2{X: v.X >> 4, Z: v.Z >> 4}
}

// LocalInChunk возвращает локальные координаты вокселя внутри его чанка.
// Маска 0xF — это остаток от деления на 16, всегда неотрицательный.
func (v Vec3) LocalInChunk() Vec3 {
	return Vec3{X: v.X & 0xF, Y: v.Y, Z: v.Z & 0xF}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}
