package main

import (
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/query"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/storage"
	"github.com/ttpr0/go-transit/transit"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
)

//**********************************************************
// transit manager
//**********************************************************

// LoadTransitManager reads the snapshot configured as source base.
func LoadTransitManager(config Config) (*TransitManager, error) {
	snapshot, err := storage.Load(config.Source.Base)
	if err != nil {
		return nil, err
	}
	return NewTransitManager(snapshot, config), nil
}

func NewTransitManager(snapshot storage.Snapshot, config Config) *TransitManager {
	router := transit.NewTransportRouter(snapshot.Catalogue, snapshot.Routing)
	renderer := render.NewMapRenderer(snapshot.Render)
	expiration := config.Cache.Expiration
	return &TransitManager{
		config:    config,
		catalogue: snapshot.Catalogue,
		router:    router,
		renderer:  renderer,
		handler:   query.NewRequestHandler(snapshot.Catalogue, router, renderer),
		cache:     cache.New(expiration, 2*expiration),
	}
}

type TransitManager struct {
	config    Config
	catalogue *catalogue.TransportCatalogue
	router    *transit.TransportRouter
	renderer  *render.MapRenderer
	handler   *query.RequestHandler

	// map and route answers
	cache *cache.Cache
}

func (self *TransitManager) GetCatalogue() *catalogue.TransportCatalogue {
	return self.catalogue
}

func (self *TransitManager) GetRouter() *transit.TransportRouter {
	return self.router
}

func (self *TransitManager) GetStop(name string) Optional[query.StopResponse] {
	switch resp := self.handler.StopInfo(0, name).(type) {
	case query.StopResponse:
		return Some(resp)
	default:
		return None[query.StopResponse]()
	}
}

func (self *TransitManager) GetBus(name string) Optional[query.BusResponse] {
	switch resp := self.handler.BusInfo(0, name).(type) {
	case query.BusResponse:
		return Some(resp)
	default:
		return None[query.BusResponse]()
	}
}

// FindRoute returns None if an endpoint is unknown or unreachable.
func (self *TransitManager) FindRoute(from, to string) (Optional[query.RouteResponse], error) {
	key := fmt.Sprintf("route|%v|%v", from, to)
	if cached, ok := self.cache.Get(key); ok {
		slog.Debug("route answered from cache", "from", from, "to", to)
		return cached.(Optional[query.RouteResponse]), nil
	}
	resp, err := self.handler.RouteInfo(0, from, to)
	if err != nil {
		return None[query.RouteResponse](), err
	}
	var result Optional[query.RouteResponse]
	switch r := resp.(type) {
	case query.RouteResponse:
		result = Some(r)
	default:
		result = None[query.RouteResponse]()
	}
	self.cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

func (self *TransitManager) RenderMap() string {
	if cached, ok := self.cache.Get("map"); ok {
		return cached.(string)
	}
	doc := self.handler.RenderMap()
	self.cache.Set("map", doc, cache.DefaultExpiration)
	return doc
}

func (self *TransitManager) Process(requests []query.StatRequest) (List[any], error) {
	return self.handler.Process(requests)
}

func (self *TransitManager) GetInfo() InfoResponse {
	info := InfoResponse{
		StopCount: self.catalogue.StopCount(),
		BusCount:  self.catalogue.BusCount(),
		Prepared:  self.router.IsPrepared(),
		Settings:  self.router.GetSettings(),
	}
	if info.Prepared {
		info.VertexCount = self.router.VertexCount()
		info.EdgeCount = self.router.EdgeCount()
	}
	return info
}
