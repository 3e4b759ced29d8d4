package vec

import "math"

// Vec2 представляет координаты в горизонтальной плоскости мира (оси X и Z).
// Используется в первую очередь для адресации чанков.
type Vec2 struct {
	X, Z int
}

// DistanceTo вычисляет евклидово расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// ChebyshevDistanceTo возвращает расстояние Чебышёва (максимум по осям).
// Зона интереса радиуса r — это квадрат (2r+1)×(2r+1) чанков.
func (v Vec2) ChebyshevDistanceTo(other Vec2) int {
	dx := absInt(v.X - other.X)
	dz := absInt(v.Z - other.Z)
	if dx > dz {
		return dx
	}
	return dz
}

// Less задаёт детерминированный порядок координат чанков (сначала X, затем Z)
func (v Vec2) Less(other Vec2) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	return v.Z < other.Z
}

// absInt возвращает абсолютное значение int
func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
