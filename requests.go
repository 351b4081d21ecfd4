package main

type StopRequestParams struct {
	Name string `json:"name"`
}

type BusRequestParams struct {
	Name string `json:"name"`
}

type RouteRequestParams struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type none struct{}
