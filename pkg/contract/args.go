// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/common/hexutil"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ParseArgs converts command line strings into values abi packing accepts,
// following the types of [inputs]
func ParseArgs(inputs abi.Arguments, raw []string) ([]interface{}, error) {
	if len(inputs) != len(raw) {
		return nil, fmt.Errorf("expected %d arguments %s, got %d", len(inputs), describeInputs(inputs), len(raw))
	}
	args := make([]interface{}, 0, len(raw))
	for i, input := range inputs {
		v, err := ParseArg(input.Type, raw[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("invalid argument %s (%s): %w", name, input.Type.String(), err)
		}
		args = append(args, v)
	}
	return args, nil
}

func describeInputs(inputs abi.Arguments) string {
	types := make([]string, 0, len(inputs))
	for _, input := range inputs {
		types = append(types, input.Type.String())
	}
	return "(" + strings.Join(types, ", ") + ")"
}

// ParseArg converts [raw] into a value of abi type [t].
// Arrays are given as comma separated lists, optionally in square brackets.
func ParseArg(t abi.Type, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%q is not a hex address", raw)
		}
		return common.HexToAddress(raw), nil
	case abi.BoolTy:
		return strconv.ParseBool(raw)
	case abi.StringTy:
		return raw, nil
	case abi.IntTy, abi.UintTy:
		return parseInteger(t, raw)
	case abi.BytesTy:
		return hexutil.Decode(raw)
	case abi.FixedBytesTy:
		bs, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(bs) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(bs))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(bs))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		elems := splitList(raw)
		if t.T == abi.ArrayTy && len(elems) != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(elems))
		}
		var out reflect.Value
		if t.T == abi.ArrayTy {
			out = reflect.New(t.GetType()).Elem()
		} else {
			out = reflect.MakeSlice(t.GetType(), len(elems), len(elems))
		}
		for i, e := range elems {
			v, err := ParseArg(*t.Elem, e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(v))
		}
		return out.Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported abi type %s", t.String())
	}
}

func parseInteger(t abi.Type, raw string) (interface{}, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(raw, "_", ""), 0)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("%s is negative", raw)
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s overflows %s", raw, t.String())
		}
	} else {
		magnitude := new(big.Int).Set(n)
		if n.Sign() < 0 {
			magnitude.Neg(magnitude).Sub(magnitude, big.NewInt(1))
		}
		if magnitude.BitLen() > t.Size-1 {
			return nil, fmt.Errorf("%s overflows %s", raw, t.String())
		}
	}
	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func splitList(raw string) []string {
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseConstructorArgs parses [raw] against the constructor of [name]
func (d *Deployer) ParseConstructorArgs(name string, raw []string) ([]interface{}, error) {
	factory, err := d.store.Factory(name)
	if err != nil {
		return nil, err
	}
	return ParseArgs(factory.ABI.Constructor.Inputs, raw)
}

// ParseInitializerArgs parses [raw] against the proxy initializer of [name]
func (d *Deployer) ParseInitializerArgs(name string, raw []string) ([]interface{}, error) {
	factory, err := d.store.Factory(name)
	if err != nil {
		return nil, err
	}
	method, ok := factory.ABI.Methods[d.proxy.Initializer]
	if !ok {
		if len(raw) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s.%s", ErrInitializerNotFound, factory.Name, d.proxy.Initializer)
	}
	return ParseArgs(method.Inputs, raw)
}
