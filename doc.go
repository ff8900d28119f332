/*
Copyright (c) 2018-2019 The c4exnet developers
Copyright (c) 2013-2018 The btcsuite developers
Copyright (c) 2015-2016 The Decred developers
Copyright (c) 2013-2014 Conformal Systems LLC.
Use of this source code is governed by an ISC
license that can be found in the LICENSE file.

Htrsignd is a Hathor transaction signing daemon written in Go. It holds the
wallet keys, speaks the device protocol over a local TCP port, and asks for
confirmation before every spend it signs.

The default options are sane for most users. This means htrsignd will work
'out of the box' for most users. However, there are also a wide variety of
flags that can be used to control it.

Usage:

	htrsignd [OPTIONS]

For an up-to-date help message:

	htrsignd --help

The long form of all option flags (except -C) can be specified in a
configuration file that is automatically parsed when htrsignd starts up. By
default, the configuration file is located at ~/.htrsignd/htrsignd.conf on
POSIX-style operating systems and %LOCALAPPDATA%\htrsignd\htrsignd.conf on
Windows. The -C (--configfile) flag can be used to override this location.
*/
package main
