// Package station reads air temperature and barometric pressure from a
// weather station over Modbus.
package station

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Modbus client configuration
const (
	DefaultSlaveID = 1
	DefaultTimeout = 1 * time.Second
	MinSlaveID     = 1
	MaxSlaveID     = 247
)

// ModbusClient reads the registers described by a RegisterMap.
type ModbusClient struct {
	mu         sync.Mutex
	client     modbus.Client
	handler    *modbus.RTUClientHandler
	tcpHandler *modbus.TCPClientHandler
	registers  RegisterMap
}

// NewRTUClient connects to a station on a serial line.
func NewRTUClient(device string, baudRate int, slaveID byte, registers RegisterMap) (*ModbusClient, error) {
	if err := validate(slaveID, registers); err != nil {
		return nil, err
	}
	handler := modbus.NewRTUClientHandler(device)
	handler.BaudRate = baudRate
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = slaveID
	handler.Timeout = DefaultTimeout

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", device, err)
	}

	return &ModbusClient{
		client:    modbus.NewClient(handler),
		handler:   handler,
		registers: registers,
	}, nil
}

// NewTCPClient connects to a station behind a Modbus TCP gateway.
func NewTCPClient(address string, slaveID byte, timeout time.Duration, registers RegisterMap) (*ModbusClient, error) {
	if err := validate(slaveID, registers); err != nil {
		return nil, err
	}
	handler := modbus.NewTCPClientHandler(address)
	handler.SlaveId = slaveID
	handler.Timeout = timeout
	if timeout <= 0 {
		handler.Timeout = DefaultTimeout
	}

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	return &ModbusClient{
		client:     modbus.NewClient(handler),
		tcpHandler: handler,
		registers:  registers,
	}, nil
}

// NewClient wraps an existing modbus.Client.
func NewClient(client modbus.Client, registers RegisterMap) (*ModbusClient, error) {
	if err := registers.Validate(); err != nil {
		return nil, err
	}
	return &ModbusClient{client: client, registers: registers}, nil
}

func validate(slaveID byte, registers RegisterMap) error {
	if slaveID < MinSlaveID || slaveID > MaxSlaveID {
		return fmt.Errorf("slave id must be between %d and %d, got: %d", MinSlaveID, MaxSlaveID, slaveID)
	}
	return registers.Validate()
}

// Close closes the Modbus connection
func (c *ModbusClient) Close() error {
	if c.handler != nil {
		return c.handler.Close()
	}
	if c.tcpHandler != nil {
		return c.tcpHandler.Close()
	}
	return nil
}

// ReadReading reads temperature and pressure.
func (c *ModbusClient) ReadReading() (*Reading, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.registers
	tData, err := c.client.ReadInputRegisters(r.Temperature.Address, r.Temperature.Type.Quantity())
	if err != nil {
		return nil, &RegisterError{Register: "temperature", Address: r.Temperature.Address, Err: err}
	}
	temp, err := r.Temperature.Decode(tData)
	if err != nil {
		return nil, &RegisterError{Register: "temperature", Address: r.Temperature.Address, Err: err}
	}

	pData, err := c.client.ReadInputRegisters(r.Pressure.Address, r.Pressure.Type.Quantity())
	if err != nil {
		return nil, &RegisterError{Register: "pressure", Address: r.Pressure.Address, Err: err}
	}
	press, err := r.Pressure.Decode(pData)
	if err != nil {
		return nil, &RegisterError{Register: "pressure", Address: r.Pressure.Address, Err: err}
	}

	return &Reading{TemperatureC: temp, Pressure: press, ReadAt: time.Now().UTC()}, nil
}

// Helper functions for data conversion
func bytesToU16(data []byte) uint16 {
	return binary.BigEndian.Uint16(data)
}

func bytesToS16(data []byte) int16 {
	return int16(binary.BigEndian.Uint16(data))
}

func bytesToU32(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}

func bytesToS32(data []byte) int32 {
	return int32(binary.BigEndian.Uint32(data))
}
