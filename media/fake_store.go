package media

import (
	"io"
	"io/ioutil"

	"github.com/squadup/squadnet/utils"
)

// FakeMediaStore keeps uploads in memory, for tests.
type FakeMediaStore struct {
	Objects map[string][]byte
}

func NewFakeMediaStore() *FakeMediaStore {
	return &FakeMediaStore{Objects: map[string][]byte{}}
}

func (f *FakeMediaStore) Save(r io.Reader, ext string) (key string, err error) {
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	key, err = utils.TextToMd5Hash(string(body))
	if err != nil {
		return "", err
	}
	key = key + ext
	f.Objects[key] = body
	return key, nil
}

func (f *FakeMediaStore) GetUrlFromKey(key string) string {
	return "https://fake.squadnet.test/" + key
}

func (f *FakeMediaStore) CleanUp() {
	f.Objects = map[string][]byte{}
}
