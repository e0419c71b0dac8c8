package hardware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/premonitor/premonitor/pkg/models"
)

// Sensor address fields understood by the SNMP provider.
const (
	addrTarget    = "target"
	addrPort      = "port"
	addrCommunity = "community"
	addrOID       = "oid"
)

const (
	defaultSNMPPort    = 161
	defaultSNMPTimeout = 5 * time.Second
	defaultCommunity   = "public"
)

// SNMPProvider reads scalar sensors from SNMP-capable sensor gateways.
// Tensor sensors (thermal imagery, audio) are not reachable over SNMP and
// return ErrUnsupportedSensor; deployments mixing both wire a composite
// provider. Connections are cached per target and reused across cycles.
type SNMPProvider struct {
	mu      sync.Mutex
	clients map[string]*gosnmp.GoSNMP
	timeout time.Duration
}

// NewSNMPProvider builds a provider with an empty connection cache.
func NewSNMPProvider() *SNMPProvider {
	return &SNMPProvider{
		clients: make(map[string]*gosnmp.GoSNMP),
		timeout: defaultSNMPTimeout,
	}
}

func (p *SNMPProvider) Read(_ context.Context, unit *models.EquipmentUnit, sensor models.SensorKind) (models.SensorReading, error) {
	cfg, ok := unit.Sensors[sensor]
	if !ok || !cfg.Enabled {
		return models.SensorReading{}, fmt.Errorf("%w: %s on %s", ErrSensorDisabled, sensor, unit.ID)
	}

	if sensor == models.SensorThermal || sensor == models.SensorAcoustic {
		return models.SensorReading{}, fmt.Errorf("%w: %s is not a scalar sensor", ErrUnsupportedSensor, sensor)
	}

	target := cfg.Address[addrTarget]
	oid := cfg.Address[addrOID]

	if target == "" || oid == "" {
		return models.SensorReading{}, fmt.Errorf("%w: target and oid are required", ErrMissingAddress)
	}

	client, err := p.client(cfg.Address)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("%w: connect %s: %v", ErrTransient, target, err)
	}

	result, err := client.Get([]string{oid})
	if err != nil {
		p.evict(cfg.Address)
		return models.SensorReading{}, fmt.Errorf("%w: get %s from %s: %v", ErrTransient, oid, target, err)
	}

	if len(result.Variables) == 0 {
		return models.SensorReading{}, fmt.Errorf("%w: empty response for %s", ErrTransient, oid)
	}

	value, err := convertVariable(result.Variables[0])
	if err != nil {
		return models.SensorReading{}, err
	}

	return models.SensorReading{
		EquipmentID: unit.ID,
		Sensor:      sensor,
		Value:       value,
		Timestamp:   time.Now(),
		Valid:       PlausibleScalar(sensor, value),
	}, nil
}

func cacheKey(address map[string]string) string {
	port := address[addrPort]
	if port == "" {
		port = strconv.Itoa(defaultSNMPPort)
	}

	return address[addrTarget] + ":" + port
}

func (p *SNMPProvider) client(address map[string]string) (*gosnmp.GoSNMP, error) {
	key := cacheKey(address)

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[key]; ok {
		return client, nil
	}

	port := uint16(defaultSNMPPort)

	if raw := address[addrPort]; raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port %q", ErrMissingAddress, raw)
		}

		port = uint16(parsed)
	}

	community := address[addrCommunity]
	if community == "" {
		community = defaultCommunity
	}

	client := &gosnmp.GoSNMP{
		Target:             address[addrTarget],
		Port:               port,
		Community:          community,
		Version:            gosnmp.Version2c,
		Timeout:            p.timeout,
		Retries:            1,
		ExponentialTimeout: true,
		MaxOids:            gosnmp.MaxOids,
	}

	if err := client.Connect(); err != nil {
		return nil, err
	}

	p.clients[key] = client

	return client, nil
}

func (p *SNMPProvider) evict(address map[string]string) {
	key := cacheKey(address)

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[key]; ok {
		if client.Conn != nil {
			_ = client.Conn.Close()
		}

		delete(p.clients, key)
	}
}

// Close tears down every cached connection.
func (p *SNMPProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, client := range p.clients {
		if client.Conn != nil {
			_ = client.Conn.Close()
		}

		delete(p.clients, key)
	}

	return nil
}

func convertVariable(v gosnmp.SnmpPDU) (float64, error) {
	switch v.Type {
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return float64(gosnmp.ToBigInt(v.Value).Int64()), nil
	case gosnmp.OpaqueFloat:
		if f, ok := v.Value.(float32); ok {
			return float64(f), nil
		}
	case gosnmp.OpaqueDouble:
		if f, ok := v.Value.(float64); ok {
			return f, nil
		}
	case gosnmp.OctetString:
		if raw, ok := v.Value.([]byte); ok {
			if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
				return f, nil
			}
		}
	}

	return 0, fmt.Errorf("unsupported SNMP type %v for %s", v.Type, v.Name)
}
