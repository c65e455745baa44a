package dto

type GraphResponse struct {
	NodeCount   int    `json:"node_count"`
	EdgeCount   int    `json:"edge_count"`
	Depots      []int  `json:"depots"`
	GasStations []int  `json:"gas_stations"`
	Fingerprint string `json:"fingerprint"`
}

type PathResponse struct {
	From     int   `json:"from"`
	To       int   `json:"to"`
	Nodes    []int `json:"nodes"`
	Distance int   `json:"distance"`
}

type ListRequestsResponse struct {
	Requests []DeliveryResponse `json:"requests"`
}
