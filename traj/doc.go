/*
 * doc.go, part of gocoaster.
 *
 * Copyright 2024 The gocoaster authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package traj implements the ride trajectory format, a simple text format to store
//the motion of a train along a track, frame by frame, so it can be played back or
//analyzed by other programs. It also provides the compressed file handling used by
//the rest of goCoaster.

/******************** Format description     ***************************************************

A ride trajectory file may only contain ASCII symbols. It may be compressed, the compression
is given by the extension of the file: ".zst" for z-standard, ".gz" for gzip, ".sz" for the
snappy framing format. Any other extension means no compression.

The file starts with a "header", which ends with a line that starts with the
characters "**" followed by one or more spaces, and the number of coaches in the train.

Each line of the header before that must be a pair key=value. The header should contain the
precision (an integer greater than 0, see below) with the key "prec", for example:

prec=3

If no precision is given, 3 is assumed.

After the header come the frames. Each frame starts with a line that begins with the character
"#" followed by 3 floating point numbers separated by spaces: the time, in s, the arc length of
the train along the track, in m, and its velocity, in m/s.

Then follows one line per coach, each with 3 integers: the x, y and z coordinates of the
coach, in m, multiplied by 10 to the power of the precision and rounded.

Each frame ends with a line containing only the character "*".

The "**" sequence may only be used as a header termination.

***************************************************************************************************/

package traj
