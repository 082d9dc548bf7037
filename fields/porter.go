package fields

import (
	"github.com/nucypher/go-porter/umbral"
)

// UmbralKey returns the field for a compressed umbral public key
// supplied as a hex string, as used for verifying and encrypting keys.
func UmbralKey() Field {
	return Key{
		Length: umbral.PublicKeySize,
		Inner: DecoderFunc(func(b []byte) (any, error) {
			key, err := umbral.PublicKeyFromBytes(b)
			if err != nil {
				return nil, decodeErrorf("could not convert input to a PublicKey: %v", err)
			}
			return key, nil
		}),
	}
}

// TreasureMap returns the field for an unencrypted treasure map supplied
// as a base64 string. The umbral parser's failure is folded into the
// field error so callers never see internal parser types.
func TreasureMap() Field {
	return Base64Bytes{
		Inner: DecoderFunc(func(b []byte) (any, error) {
			tmap, err := umbral.TreasureMapFromBytes(b)
			if err != nil {
				return nil, decodeErrorf("could not convert input to a TreasureMap: %v", err)
			}
			return tmap, nil
		}),
	}
}

// RetrievalKit returns the field for a retrieval kit supplied as a
// base64 string.
func RetrievalKit() Field {
	return Base64Bytes{
		Inner: DecoderFunc(func(b []byte) (any, error) {
			kit, err := umbral.RetrievalKitFromBytes(b)
			if err != nil {
				return nil, decodeErrorf("could not convert input to a RetrievalKit: %v", err)
			}
			return kit, nil
		}),
	}
}
