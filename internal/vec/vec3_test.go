package vec

import "testing"

func TestNeighboursOrder(t *testing.T) {
	origin := Of(5, 5, 5)
	var got []Vec3
	origin.Neighbours(func(n Vec3) { got = append(got, n) })

	want := []Vec3{
		{5, 4, 5}, {5, 6, 5}, {5, 5, 4}, {5, 5, 6}, {4, 5, 5}, {6, 5, 5},
	}
	if len(got) != len(want) {
		t.Fatalf("Ожидалось %d соседей, получено %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("Сосед %d: ожидался %v, получен %v", i, want[i], got[i])
		}
	}
}

func TestHorizontalNeighboursStayOnLayer(t *testing.T) {
	origin := Of(1, 2, 3)
	count := 0
	origin.HorizontalNeighbours(func(n Vec3) {
		count++
		if n.Y != origin.Y {
			t.Errorf("Горизонтальный сосед %v сменил высоту", n)
		}
		if n.DistanceTo(origin) != 1 {
			t.Errorf("Сосед %v не является соседом по грани", n)
		}
	})
	if count != 4 {
		t.Errorf("Ожидалось 4 соседа, получено %d", count)
	}
}

func TestLessOrdersByYThenZThenX(t *testing.T) {
	if !Of(9, 0, 9).Less(Of(0, 1, 0)) {
		t.Error("Y должен сравниваться первым")
	}
	if !Of(9, 1, 0).Less(Of(0, 1, 1)) {
		t.Error("Z должен сравниваться вторым")
	}
	if !Of(0, 1, 1).Less(Of(1, 1, 1)) {
		t.Error("X должен сравниваться последним")
	}
	if Of(1, 1, 1).Less(Of(1, 1, 1)) {
		t.Error("Равные векторы не должны быть меньше друг друга")
	}
}
