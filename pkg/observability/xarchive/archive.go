package xarchive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// copyBufferSize 读取源文件时使用的缓冲大小。
const copyBufferSize = 32 * 1024

// Archive 把 src 压缩为 src+format.Ext()，成功后删除 src，返回归档路径。
//
// 源文件在压缩前会重新检查，不存在或不是普通文件时返回 [ErrSourceMissing]，
// 此时不会创建任何文件。目标文件已存在时返回 [ErrWriteFailure]（错误链中含
// fs.ErrExist），已有归档与源文件都保持不变。
//
// 归档成功但删除源文件失败时返回归档路径和 [ErrRemoveSource]。
func Archive(src string, format Format, opts ...Option) (string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if !format.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidFormat, int(format))
	}
	if err := ValidateLevel(o.level); err != nil {
		return "", err
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceMissing, src, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrSourceMissing, src)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceMissing, src, err)
	}
	defer in.Close()

	dst := src + format.Ext()
	if err := writeArchive(dst, in, info, format, o); err != nil {
		return "", err
	}

	// 先关闭源文件再删除，部分平台不允许删除已打开的文件。
	_ = in.Close()
	if err := os.Remove(src); err != nil {
		return dst, fmt.Errorf("%w: %s: %w", ErrRemoveSource, src, err)
	}
	return dst, nil
}

func writeArchive(dst string, in io.Reader, info os.FileInfo, format Format, o options) (err error) {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, o.mode)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrWriteFailure, dst, cerr)
		}
	}()

	bw := bufio.NewWriterSize(out, copyBufferSize)
	switch format {
	case FormatZip:
		err = writeZip(bw, in, info, o.level)
	default:
		err = writeGzip(bw, in, info, o.level)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, dst, err)
	}
	return nil
}

func writeGzip(w io.Writer, in io.Reader, info os.FileInfo, level int) error {
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return err
	}
	zw.Name = info.Name()
	zw.ModTime = info.ModTime()

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(zw, in, buf); err != nil {
		return errors.Join(err, zw.Close())
	}
	return zw.Close()
}

func writeZip(w io.Writer, in io.Reader, info os.FileInfo, level int) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	hdr := &zip.FileHeader{
		Name:     filepath.Base(info.Name()),
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	hdr.SetMode(info.Mode().Perm())

	entry, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Join(err, zw.Close())
	}
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(entry, in, buf); err != nil {
		return errors.Join(err, zw.Close())
	}
	return zw.Close()
}
