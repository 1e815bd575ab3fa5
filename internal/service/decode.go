package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/hut-services/internal/domain"
)

// DecodeSource приводит входные данные к HutSource[T, P].
//
// Поддерживается типизированный HutSource или запись T (и указатели на них),
// а также map[string]any, json.RawMessage и []byte. Map с ключом "source_data"
// разбирается как HutSource, иначе как сама запись источника.
func DecodeSource[T domain.SourceRecord, P any](sourceName string, raw any) (domain.HutSource[T, P], error) {
	var zero domain.HutSource[T, P]

	switch v := raw.(type) {
	case domain.HutSource[T, P]:
		return v, nil
	case *domain.HutSource[T, P]:
		if v == nil {
			return zero, fmt.Errorf("nil %s source", sourceName)
		}
		return *v, nil
	case T:
		return newValidatedSource[T, P](sourceName, v)
	case *T:
		if v == nil {
			return zero, fmt.Errorf("nil %s record", sourceName)
		}
		return newValidatedSource[T, P](sourceName, *v)
	case json.RawMessage:
		return decodeJSON[T, P](sourceName, v)
	case []byte:
		return decodeJSON[T, P](sourceName, v)
	case map[string]any:
		return decodeMap[T, P](sourceName, v)
	}
	return zero, fmt.Errorf("unsupported %s record type %T", sourceName, raw)
}

func decodeJSON[T domain.SourceRecord, P any](sourceName string, data []byte) (domain.HutSource[T, P], error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.HutSource[T, P]{}, fmt.Errorf("invalid %s record json: %w", sourceName, err)
	}
	return decodeMap[T, P](sourceName, m)
}

func decodeMap[T domain.SourceRecord, P any](sourceName string, m map[string]any) (domain.HutSource[T, P], error) {
	if _, ok := m["source_data"]; ok {
		var src domain.HutSource[T, P]
		if err := decode(m, &src); err != nil {
			return src, fmt.Errorf("invalid %s source: %w", sourceName, err)
		}
		if src.SourceName == "" {
			src.SourceName = sourceName
		}
		// source_data валидируется вместе с HutSource
		if err := domain.Validate(src); err != nil {
			return src, err
		}
		return src, nil
	}

	var rec T
	if err := decode(m, &rec); err != nil {
		return domain.HutSource[T, P]{}, fmt.Errorf("invalid %s record: %w", sourceName, err)
	}
	return newValidatedSource[T, P](sourceName, rec)
}

func newValidatedSource[T domain.SourceRecord, P any](sourceName string, rec T) (domain.HutSource[T, P], error) {
	if err := domain.Validate(rec); err != nil {
		return domain.HutSource[T, P]{}, err
	}
	return domain.NewHutSource[T, P](sourceName, rec, nil), nil
}

func decode(input any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           output,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
