package entities

type City struct {
	ID   int64
	Name string
}

type Location struct {
	ID      int64
	Name    string
	MapLink string
	CityID  int64
	City    *City
}
