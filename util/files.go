package util

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

func MD5File(fileName string) (string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return "", errors.Wrap(err, "hashing file")
	}
	defer file.Close()

	md5 := md5.New()
	if _, err := io.Copy(md5, file); err != nil {
		return "", errors.Wrapf(err, "hashing %s", fileName)
	}

	return fmt.Sprintf("%x", md5.Sum(nil)), nil
}
