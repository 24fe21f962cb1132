package station

import (
	"errors"
	"fmt"
	"time"
)

// RegisterType is the encoding of a register value.
type RegisterType string

const (
	U16 RegisterType = "u16"
	S16 RegisterType = "s16"
	U32 RegisterType = "u32"
	S32 RegisterType = "s32"
)

// Quantity returns the number of 16 bit registers the value occupies.
func (t RegisterType) Quantity() uint16 {
	switch t {
	case U32, S32:
		return 2
	default:
		return 1
	}
}

// Register describes one input register value. The decoded value is the raw
// integer divided by Scale.
type Register struct {
	Address uint16       `json:"address"`
	Type    RegisterType `json:"type"`
	Scale   float64      `json:"scale"`
}

// Decode converts the register bytes into a scaled value.
func (r Register) Decode(data []byte) (float64, error) {
	if want := int(r.Type.Quantity()) * 2; len(data) < want {
		return 0, fmt.Errorf("short read: want %d bytes, got %d", want, len(data))
	}
	var raw float64
	switch r.Type {
	case U16:
		raw = float64(bytesToU16(data))
	case S16:
		raw = float64(bytesToS16(data))
	case U32:
		raw = float64(bytesToU32(data))
	case S32:
		raw = float64(bytesToS32(data))
	default:
		return 0, fmt.Errorf("unknown register type %q", r.Type)
	}
	return raw / r.Scale, nil
}

// PressureUnit is the unit the station reports pressure in.
type PressureUnit string

const (
	HPa  PressureUnit = "hPa"
	MmHg PressureUnit = "mmHg"
)

// RegisterMap locates the readings on the station.
type RegisterMap struct {
	Temperature  Register     `json:"temperature"`
	Pressure     Register     `json:"pressure"`
	PressureUnit PressureUnit `json:"pressure_unit"`
	// SeaLevel marks a pressure already reduced to sea level.
	SeaLevel bool `json:"sea_level"`
}

// DefaultRegisterMap is the layout of common RS485 weather transmitters:
// temperature in tenths of °C at 0x0001, pressure in tenths of hPa at 0x0003.
func DefaultRegisterMap() RegisterMap {
	return RegisterMap{
		Temperature:  Register{Address: 0x0001, Type: S16, Scale: 10},
		Pressure:     Register{Address: 0x0003, Type: U16, Scale: 10},
		PressureUnit: HPa,
	}
}

// Validate checks the register descriptions.
func (m RegisterMap) Validate() error {
	var errs []error
	for name, r := range map[string]Register{"temperature": m.Temperature, "pressure": m.Pressure} {
		switch r.Type {
		case U16, S16, U32, S32:
		default:
			errs = append(errs, fmt.Errorf("%s register: unknown type %q", name, r.Type))
		}
		if r.Scale <= 0 {
			errs = append(errs, fmt.Errorf("%s register: scale must be positive, got: %v", name, r.Scale))
		}
	}
	switch m.PressureUnit {
	case HPa, MmHg:
	default:
		errs = append(errs, fmt.Errorf("unknown pressure unit %q", m.PressureUnit))
	}
	return errors.Join(errs...)
}

// Reading is one sample from the station.
type Reading struct {
	TemperatureC float64
	Pressure     float64 // in the map's PressureUnit
	ReadAt       time.Time
}

// RegisterError reports a failed register read or decode.
type RegisterError struct {
	Register string
	Address  uint16
	Err      error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("read %s register 0x%04X: %v", e.Register, e.Address, e.Err)
}

func (e *RegisterError) Unwrap() error {
	return e.Err
}
