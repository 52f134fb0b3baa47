// Package jsonavro converts loosely typed JSON documents into records that
// conform to an Avro schema.
//
// - Schema-driven recursive conversion: records, arrays, maps, enums, unions and primitives
// - Logical types: date, time-millis/micros, timestamp-millis/micros, decimal, uuid
// - Union resolution by speculative trial, first matching branch wins
// - Additional-properties capture for JSON fields the schema does not declare
// - A field-level failure hook that can substitute values and queue record post-processing
// - A stable error model via Issues (dotted field path, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Schemas live in avsc/, Avro encoding in codec/, and the CLI under cmd/json2avro.
// - A Converter is immutable after New and safe for concurrent use; all per-call state stays on the call.
//
// Typical usage:
//
//	s, err := avsc.Parse(schemaJSON)
//	c := jsonavro.New(jsonavro.Options{ExtraPropsField: "extra"})
//	rec, err := c.ConvertBytes(data, s)
//
//	enc, err := codec.ForSchema(s)
//	bin, err := enc.Binary(rec)
package jsonavro
