package dto

type StoreResponse struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type ListStoresResponse struct {
	Stores []StoreResponse `json:"stores"`
}
